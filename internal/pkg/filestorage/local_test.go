package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestUploadAndRemove(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	fh := multipartHeader(t, "Handbook.PDF", "application/pdf", []byte("%PDF-1.4 test"))
	stored, err := ls.Upload(fh, "ebooks/12")
	require.NoError(t, err)

	assert.Equal(t, "Handbook.PDF", stored.Name)
	assert.True(t, strings.HasPrefix(stored.Path, "ebooks/12/"))
	assert.True(t, strings.HasSuffix(stored.Path, ".pdf"))
	assert.Equal(t, "http://localhost:8080/uploads/"+stored.Path, stored.URL)
	assert.Equal(t, int64(len("%PDF-1.4 test")), stored.Size)
	assert.Equal(t, "application/pdf", stored.MimeType)

	onDisk := filepath.Join(root, filepath.FromSlash(stored.Path))
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	require.NoError(t, ls.Remove(stored.Path))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	assert.NoError(t, ls.Remove(stored.Path))
}

func TestRemoveRejectsEscapes(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	assert.ErrorIs(t, ls.Remove(""), ErrInvalidPath)
	// cleaned against the root so it cannot leave it
	assert.NoError(t, ls.Remove("../../etc/passwd-not-here"))
}

func TestPublicURLWithoutBase(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "/ebooks/1/a.pdf", ls.PublicURL("ebooks/1/a.pdf"))
}
