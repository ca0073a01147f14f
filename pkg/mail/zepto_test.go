package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Zoho-enczapikey abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"OK"}`))
	}))
	defer srv.Close()

	s := New(srv.URL, "Zoho-enczapikey abc", "FastLogix <noreply@fastlogix.org>")
	err := s.Send(context.Background(), "jane@example.com", "Jane", "Order Created", "<p>hi</p>")
	require.NoError(t, err)

	from := got["from"].(map[string]interface{})
	assert.Equal(t, "noreply@fastlogix.org", from["address"])
	assert.Equal(t, "FastLogix", from["name"])
	assert.Equal(t, "Order Created", got["subject"])
	assert.Equal(t, "<p>hi</p>", got["htmlbody"])

	to := got["to"].([]interface{})
	require.Len(t, to, 1)
	addr := to[0].(map[string]interface{})["email_address"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", addr["address"])
}

func TestSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := New(srv.URL, "bad", "noreply@fastlogix.org").
		Send(context.Background(), "jane@example.com", "", "s", "<p></p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendWithoutToken(t *testing.T) {
	err := New("http://unused", "", "noreply@fastlogix.org").
		Send(context.Background(), "jane@example.com", "", "s", "<p></p>")
	require.Error(t, err)
}

func TestSplitFrom(t *testing.T) {
	addr, name := splitFrom("FastLogix <noreply@fastlogix.org>")
	assert.Equal(t, "noreply@fastlogix.org", addr)
	assert.Equal(t, "FastLogix", name)

	addr, name = splitFrom("noreply@fastlogix.org")
	assert.Equal(t, "noreply@fastlogix.org", addr)
	assert.Empty(t, name)
}
