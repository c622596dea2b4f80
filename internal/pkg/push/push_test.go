package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expoToken(i int) string {
	return fmt.Sprintf("ExponentPushToken[token-%03d]", i)
}

func TestIsValidPushToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"expo", "ExponentPushToken[abc]", true},
		{"expo short prefix", "ExpoPushToken[abc]", true},
		{"expo unterminated", "ExponentPushToken[abc", false},
		{"long opaque", strings.Repeat("a", 120), true},
		{"long with space", strings.Repeat("a", 60) + " " + strings.Repeat("b", 60), false},
		{"short opaque", "abc123", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPushToken(tt.token))
		})
	}
}

func TestChunk(t *testing.T) {
	tokens := make([]string, 250)
	chunks := Chunk(tokens, 100)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[2], 50)

	assert.Empty(t, Chunk(nil, 100))
}

func TestFilterValidTokensDedupes(t *testing.T) {
	got := FilterValidTokens([]string{"ExponentPushToken[a]", "bad", " ExponentPushToken[a] ", "ExpoPushToken[b]"})
	assert.Equal(t, []string{"ExponentPushToken[a]", "ExpoPushToken[b]"}, got)
}

type recordingServer struct {
	mu      sync.Mutex
	batches [][]message
	auth    []string
	status  int
	body    string
}

func (s *recordingServer) handler(w http.ResponseWriter, r *http.Request) {
	var msgs []message
	_ = json.NewDecoder(r.Body).Decode(&msgs)

	s.mu.Lock()
	s.batches = append(s.batches, msgs)
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	status, body := s.status, s.body
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if body == "" {
		tickets := make([]ticket, len(msgs))
		for i := range tickets {
			tickets[i] = ticket{Status: "ok", ID: fmt.Sprintf("t-%d", i)}
		}
		_ = json.NewEncoder(w).Encode(sendResponse{Data: tickets})
		return
	}
	_, _ = w.Write([]byte(body))
}

func newTestClient(url string, batch int) *Client {
	return NewClient(Config{URL: url, AccessToken: "expo-secret", Timeout: 5 * time.Second, BatchSize: batch}, zerolog.Nop())
}

func TestSendPushNotificationsChunksAndCarriesPayload(t *testing.T) {
	rec := &recordingServer{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	tokens := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		tokens = append(tokens, expoToken(i))
	}
	tokens = append(tokens, "not-a-token")

	data := map[string]string{
		DataNavigationTarget: "CourseDetails",
		DataCourseID:         "12",
		DataCourseName:       "CS101",
		DataType:             "class_scheduled",
	}

	ok, err := newTestClient(srv.URL, 2).SendPushNotifications(context.Background(), tokens, "New class", "Intro at 19:00", data)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, rec.batches, 3)
	assert.Len(t, rec.batches[0], 2)
	assert.Len(t, rec.batches[2], 1)
	assert.Equal(t, "Bearer expo-secret", rec.auth[0])

	first := rec.batches[0][0]
	assert.Equal(t, expoToken(0), first.To)
	assert.Equal(t, "New class", first.Title)
	assert.Equal(t, data, first.Data)
}

func TestSendPushNotificationsProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"request level errors array", http.StatusOK, `{"errors":[{"code":"PUSH_TOO_MANY_EXPERIENCE_IDS","message":"mixed projects"}]}`},
		{"server error", http.StatusInternalServerError, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingServer{status: tt.status, body: tt.body}
			srv := httptest.NewServer(http.HandlerFunc(rec.handler))
			defer srv.Close()

			ok, err := newTestClient(srv.URL, 100).SendPushNotifications(context.Background(), []string{expoToken(1)}, "t", "b", nil)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrBatchRejected)
		})
	}
}

func TestSendPushNotificationsTicketErrorsDoNotFailBatch(t *testing.T) {
	rec := &recordingServer{body: `{"data":[{"status":"error","message":"DeviceNotRegistered"}]}`}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	ok, err := newTestClient(srv.URL, 100).SendPushNotifications(context.Background(), []string{expoToken(1)}, "t", "b", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSendPushNotificationsNoValidTokens(t *testing.T) {
	rec := &recordingServer{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	ok, err := newTestClient(srv.URL, 100).SendPushNotifications(context.Background(), []string{"nope"}, "t", "b", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, rec.batches)
}
