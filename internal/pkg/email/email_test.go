package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailServiceFallsBackToLog(t *testing.T) {
	svc := NewEmailService(Config{FromName: "Academy", FromEmail: "no-reply@academy.app"}, zerolog.Nop())
	_, ok := svc.(*LogEmailService)
	require.True(t, ok)
	assert.NoError(t, svc.SendEnrollmentApproved(context.Background(), "s@academy.app", "Sam", "CS101"))
}

func TestSendgridEmailServiceSendsV3Mail(t *testing.T) {
	var gotPath, gotAuth string
	var payload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := NewEmailService(Config{APIKey: "SG.key", FromName: "Academy", FromEmail: "no-reply@academy.app", Host: srv.URL}, zerolog.Nop())
	require.NoError(t, svc.SendEnrollmentApproved(context.Background(), "s@academy.app", "Sam", "CS101"))

	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Equal(t, "Bearer SG.key", gotAuth)

	personalizations := payload["personalizations"].([]interface{})
	first := personalizations[0].(map[string]interface{})
	assert.Equal(t, "[Academy] Enrollment approved: CS101", first["subject"])
}

func TestSendgridEmailServiceRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	svc := NewEmailService(Config{APIKey: "SG.bad", FromName: "Academy", FromEmail: "no-reply@academy.app", Host: srv.URL}, zerolog.Nop())
	err := svc.SendEnrollmentApproved(context.Background(), "s@academy.app", "Sam", "CS101")
	assert.Error(t, err)
}
