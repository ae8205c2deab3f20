package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://graph.example.com"})
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "+33 6 12 34 56 78", want: "33612345678"},
		{input: "0033 (6) 12-34-56-78", want: "33612345678"},
		{input: "123", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRecipient)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSendText(t *testing.T) {
	var received TextMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/123456/messages", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.ABC"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, PhoneNumberID: "123456", AccessToken: "token-1"})
	require.NoError(t, err)

	id, err := client.SendText(context.Background(), "+44 7700 900123", "Your order ORD-000001 is confirmed")
	require.NoError(t, err)

	assert.Equal(t, "wamid.ABC", id)
	assert.Equal(t, "447700900123", received.To)
	assert.Equal(t, "text", received.Type)
	assert.Equal(t, "Your order ORD-000001 is confirmed", received.Text.Body)
}

func TestSendTextErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, PhoneNumberID: "1", AccessToken: "bad"})
	require.NoError(t, err)

	_, err = client.SendText(context.Background(), "+447700900123", "hello")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}
