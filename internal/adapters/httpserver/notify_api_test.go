package httpserver

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func TestNotifyCallback(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/notify/send-callback", map[string]string{
		"name":  "Ana",
		"phone": "+54 11 5555 0000",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp notifyResp
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "callback:Ana:+54 11 5555 0000", env.notifier.lastCall())
}

func TestNotifyValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/notify/send-callback", map[string]string{"name": "Ana"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp notifyResp
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "phone")
	assert.Zero(t, env.notifier.callCount())

	rec = env.do(t, http.MethodPost, "/api/notify/send-contact", map[string]string{
		"name":    "Ana",
		"email":   "not-an-email",
		"message": "hi",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotifyMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/notify/send-consultation", "not json at all")
	// a JSON string decodes but fails validation; either way no delivery
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, env.notifier.callCount())
}

func TestNotifyDeliveryFailureIsNotA5xx(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errors.New("smtp down")

	rec := env.do(t, http.MethodPost, "/api/notify/send-contact", map[string]string{
		"name":    "Ana",
		"email":   "ana@example.com",
		"message": "When can you deliver to Bariloche?",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp notifyResp
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "smtp down")
	assert.Equal(t, 1, env.notifier.callCount())
}

func TestNotifyPartner(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/notify/send-partner", map[string]string{
		"company": "Nordic Cabins SA",
		"name":    "Luis",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partner:Nordic Cabins SA:Luis", env.notifier.lastCall())
}
