package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"regexp"
	"time"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "ANTC-TRX-Bot/1.0"

	maxErrorBody = 4 << 10
)

var webhookRe = regexp.MustCompile(`^https://discord\.com/api/webhooks/\d+/[\w-]+$`)

// ValidURL reports whether url has the shape of a Discord webhook endpoint.
func ValidURL(url string) bool { return webhookRe.MatchString(url) }

//go:generate mockery --name Sender --output=./mocks
type Sender interface {
	Send(ctx context.Context, msg *Message, url string) (string, error)
	SendWithFile(ctx context.Context, msg *Message, file *File, url string) (string, error)
}

// File is the single binary part of a multipart webhook call.
type File struct {
	Name string
	Data []byte
}

type Client struct {
	c         *http.Client
	timeout   time.Duration
	userAgent string
	validate  func(string) bool
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.c = hc }
}

// WithURLValidator swaps the endpoint check; tests point the client at httptest servers.
func WithURLValidator(fn func(string) bool) Option {
	return func(c *Client) { c.validate = fn }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		c:         &http.Client{},
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		validate:  ValidURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Send posts msg as JSON and returns the response body.
func (c *Client) Send(ctx context.Context, msg *Message, url string) (string, error) {
	if err := c.check(url); err != nil {
		return "", err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return c.post(ctx, url, "application/json", body)
}

// SendWithFile posts msg as the payload_json part next to a single file part.
func (c *Client) SendWithFile(ctx context.Context, msg *Message, file *File, url string) (string, error) {
	if file == nil {
		return c.Send(ctx, msg, url)
	}
	if err := c.check(url); err != nil {
		return "", err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("payload_json", string(payload)); err != nil {
		return "", err
	}
	part, err := w.CreateFormFile("file", file.Name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return c.post(ctx, url, w.FormDataContentType(), buf.Bytes())
}

func (c *Client) check(url string) error {
	if url == "" {
		return &Error{Kind: KindInvalidURL, Err: ErrNoURL}
	}
	if !c.validate(url) {
		return &Error{Kind: KindInvalidURL, Err: ErrInvalidURL}
	}
	return nil
}

func (c *Client) post(ctx context.Context, url, contentType string, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.c.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", &Error{Kind: KindTimeout, Err: err}
		}
		return "", &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil && isTimeout(ctx, err) {
		return "", &Error{Kind: KindTimeout, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Kind: KindHTTP, Status: resp.StatusCode, Body: string(b)}
	}
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: fmt.Errorf("read response: %w", err)}
	}
	return string(b), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
