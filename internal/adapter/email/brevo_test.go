package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/carta/internal/config"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

func serve(t *testing.T, status int, check func(r *http.Request, body brevoRequest)) *BrevoClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body brevoRequest
		require.NoError(t, json.Unmarshal(raw, &body))
		if check != nil {
			check(r, body)
		}
		w.WriteHeader(status)
		w.Write([]byte(`{"message": "bad sender"}`))
	}))
	t.Cleanup(srv.Close)

	return NewBrevoClient(config.EmailConfig{
		APIURL:        srv.URL,
		APIKey:        "xkeysib-test",
		SenderName:    "Carta",
		SenderAddress: "no-reply@carta.es",
		Timeout:       time.Second,
	}, srv.Client())
}

func TestBrevoSend(t *testing.T) {
	client := serve(t, http.StatusCreated, func(r *http.Request, body brevoRequest) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "xkeysib-test", r.Header.Get("api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, brevoContact{Name: "Carta", Email: "no-reply@carta.es"}, body.Sender)
		assert.Equal(t, []brevoContact{{Name: "Ana", Email: "ana@example.com"}}, body.To)
		assert.Equal(t, "Pedido", body.Subject)
		assert.Equal(t, "<p>hola</p>", body.HTMLContent)
	})

	err := client.Send(context.Background(), interfaces.Email{
		ToAddress: "ana@example.com",
		ToName:    "Ana",
		Subject:   "Pedido",
		HTML:      "<p>hola</p>",
	})
	assert.NoError(t, err)
}

func TestBrevoSendRejected(t *testing.T) {
	client := serve(t, http.StatusBadRequest, nil)

	err := client.Send(context.Background(), interfaces.Email{ToAddress: "ana@example.com"})

	assert.ErrorContains(t, err, "status 400")
	assert.ErrorContains(t, err, "bad sender")
}

func TestBrevoSendWithoutRecipient(t *testing.T) {
	client := NewBrevoClient(config.EmailConfig{Timeout: time.Second}, nil)

	assert.Error(t, client.Send(context.Background(), interfaces.Email{}))
}
