package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilioSenderSend(t *testing.T) {
	var captured *http.Request
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"To":   r.PostFormValue("To"),
			"From": r.PostFormValue("From"),
			"Body": r.PostFormValue("Body"),
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender("AC123", "token", "+14155238886", nil, WithTwilioBaseURL(srv.URL))
	err := s.Send(context.Background(), Outbound{
		TenantID: "fitlab",
		To:       "+393331112223",
		Body:     "Ecco gli slot:",
		Buttons:  []string{"Mon 10/03 14:00"},
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", captured.URL.Path)
	user, pass, ok := captured.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "AC123", user)
	assert.Equal(t, "token", pass)

	assert.Equal(t, "whatsapp:+393331112223", form["To"])
	assert.Equal(t, "whatsapp:+14155238886", form["From"])
	assert.Contains(t, form["Body"], "1. Mon 10/03 14:00")
	assert.Contains(t, form["Body"], "Rispondi con il numero della tua scelta")
}

func TestTwilioSenderKeepsExistingPrefix(t *testing.T) {
	var to string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		to = r.PostFormValue("To")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewTwilioSender("AC123", "token", "whatsapp:+14155238886", nil, WithTwilioBaseURL(srv.URL))
	err := s.Send(context.Background(), Outbound{To: "whatsapp:+393331112223", Body: "Ciao"})
	require.NoError(t, err)
	assert.Equal(t, "whatsapp:+393331112223", to)
}

func TestTwilioSenderDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"invalid 'To' number","status":400}`))
	}))
	defer srv.Close()

	s := NewTwilioSender("AC123", "token", "+14155238886", nil, WithTwilioBaseURL(srv.URL))
	err := s.Send(context.Background(), Outbound{To: "+1", Body: "Ciao"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")
	assert.Equal(t, 1, attempts)
}

func TestTwilioSenderRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewTwilioSender("AC123", "token", "+14155238886", nil, WithTwilioBaseURL(srv.URL))
	err := s.Send(context.Background(), Outbound{To: "+393331112223", Body: "Ciao"})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestTwilioSenderValidation(t *testing.T) {
	s := NewTwilioSender("", "", "+14155238886", nil)
	err := s.Send(context.Background(), Outbound{To: "+39333", Body: "Ciao"})
	assert.Error(t, err)

	s = NewTwilioSender("AC123", "token", "+14155238886", nil)
	assert.Error(t, s.Send(context.Background(), Outbound{Body: "Ciao"}))
	assert.Error(t, s.Send(context.Background(), Outbound{To: "+39333", Body: "   "}))
}
