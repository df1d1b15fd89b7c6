package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppClient_Send(t *testing.T) {
	var gotPath, gotAuth string
	var gotMsg whatsAppMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotMsg))
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer server.Close()

	client, err := NewWhatsAppClient(server.URL, "wa-token", "1555000111", server.Client())
	require.NoError(t, err)

	err = client.Send(context.Background(), "311 123 4567", "Tu pedido fue aprobado")
	require.NoError(t, err)

	assert.Equal(t, "/1555000111/messages", gotPath)
	assert.Equal(t, "Bearer wa-token", gotAuth)
	assert.Equal(t, "whatsapp", gotMsg.MessagingProduct)
	assert.Equal(t, "523111234567", gotMsg.To, "number normalized before sending")
	assert.Equal(t, "text", gotMsg.Type)
	assert.Equal(t, "Tu pedido fue aprobado", gotMsg.Text.Body)
}

func TestWhatsAppClient_ProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid token"}}`))
	}))
	defer server.Close()

	client, err := NewWhatsAppClient(server.URL, "bad-token", "1555000111", server.Client())
	require.NoError(t, err)

	err = client.Send(context.Background(), "3111234567", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestNewWhatsAppClient_MissingCredentials(t *testing.T) {
	_, err := NewWhatsAppClient("https://graph.test", "", "1555000111", http.DefaultClient)
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewWhatsAppClient("https://graph.test", "token", "", http.DefaultClient)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestWhatsAppClient_EmptyDestination(t *testing.T) {
	client, err := NewWhatsAppClient("https://graph.test", "token", "1555000111", http.DefaultClient)
	require.NoError(t, err)

	err = client.Send(context.Background(), "---", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty destination")
}
