package discord

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anyURL(string) bool { return true }

func testMessage() *Message {
	return &Message{
		Content: "hello",
		Embeds: []Embed{{
			Title:     "t",
			Color:     3447003,
			Timestamp: Timestamp(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)),
		}},
	}
}

func TestValidURL(t *testing.T) {
	assert.True(t, ValidURL("https://discord.com/api/webhooks/123456789012345678/AbCdEf-123_token"))
	assert.False(t, ValidURL("not-a-webhook-url"))
	assert.False(t, ValidURL("http://discord.com/api/webhooks/1/x"))
	assert.False(t, ValidURL("https://discord.com/api/webhooks/1/x/extra"))
	assert.False(t, ValidURL("https://discord.com/api/webhooks/1/tok en"))
}

func TestSend(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    ErrorKind
		status  int
		body    string
	}{
		{
			name: "ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
				var m Message
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
				assert.Equal(t, "hello", m.Content)
				w.WriteHeader(http.StatusNoContent)
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"message":"You are being rate limited."}`))
			},
			kind:   KindHTTP,
			status: http.StatusTooManyRequests,
			body:   `{"message":"You are being rate limited."}`,
		},
		{
			name: "unknown webhook",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("Unknown Webhook"))
			},
			kind:   KindHTTP,
			status: http.StatusNotFound,
			body:   "Unknown Webhook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(WithURLValidator(anyURL))
			_, err := c.Send(context.Background(), testMessage(), srv.URL)
			if tt.kind == 0 {
				assert.NoError(t, err)
				return
			}
			var de *Error
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, tt.kind, de.Kind)
			assert.Equal(t, tt.status, de.Status)
			assert.Equal(t, tt.body, de.Body)
			assert.False(t, errors.Is(err, ErrTimeout))
		})
	}
}

func TestSendInvalidURLMakesNoCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	c := NewClient()
	_, err := c.Send(context.Background(), testMessage(), srv.URL)
	assert.True(t, errors.Is(err, ErrInvalidURL))
	assert.Equal(t, KindInvalidURL, KindOf(err))

	_, err = c.Send(context.Background(), testMessage(), "")
	assert.Equal(t, KindInvalidURL, KindOf(err))
	assert.True(t, errors.Is(err, ErrNoURL))
	assert.False(t, called)
}

func TestSendTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(WithURLValidator(anyURL), WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := c.Send(context.Background(), testMessage(), srv.URL)

	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(WithURLValidator(anyURL))
	_, err := c.Send(context.Background(), testMessage(), url)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestSendWithFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var m Message
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("payload_json")), &m))
		assert.Equal(t, "hello", m.Content)

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "announce_photo.png", hdr.Filename)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	c := NewClient(WithURLValidator(anyURL))
	ack, err := c.SendWithFile(context.Background(), testMessage(), &File{Name: "announce_photo.png", Data: []byte{0x89, 'P', 'N', 'G'}}, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, ack)
}

func TestSendWithFileFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	c := NewClient(WithURLValidator(anyURL))
	_, err := c.SendWithFile(context.Background(), testMessage(), &File{Name: "a.png", Data: []byte("x")}, srv.URL)
	assert.Equal(t, KindHTTP, KindOf(err))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "webhook request failed: 500 - boom", (&Error{Kind: KindHTTP, Status: 500, Body: "boom"}).Error())
	assert.Equal(t, "webhook request timeout", (&Error{Kind: KindTimeout}).Error())
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("other")))
}
