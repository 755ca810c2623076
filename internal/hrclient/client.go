// Package hrclient posts check-in and check-out records to the HR
// attendance endpoints.
package hrclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Payload selects the request body contract for a deployment.
type Payload string

const (
	// PayloadMultipart posts the vendor form fields as multipart/form-data.
	PayloadMultipart Payload = "multipart"
	// PayloadJSON posts {"timestamp": ...}.
	PayloadJSON Payload = "json"
)

// DefaultTimeout bounds a single submission.
const DefaultTimeout = 15 * time.Second

// isoMillis matches the browser's Date.toISOString output.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrUnexpectedStatus is returned for any non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrUnknownPayload is returned for a Payload outside the known set.
	ErrUnknownPayload = errors.New("unknown payload contract")
)

// Form holds the fixed vendor form fields. Unset values are sent as empty strings.
type Form struct {
	Conreqcsr string
	URLMode   string
	Latitude  string
	Longitude string
	Accuracy  string
}

// Fields returns the multipart field set.
func (f Form) Fields() map[string]string {
	return map[string]string{
		"conreqcsr": f.Conreqcsr,
		"urlMode":   f.URLMode,
		"latitude":  f.Latitude,
		"longitude": f.Longitude,
		"accuracy":  f.Accuracy,
	}
}

// Config describes the endpoints and payload of one deployment.
type Config struct {
	CheckInURL  string
	CheckOutURL string
	Payload     Payload
	Form        Form
	Referer     string
	Headers     map[string]string
	Timeout     time.Duration
}

type Client struct {
	http *resty.Client
	cfg  Config
	now  func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithClock overrides the timestamp source for JSON payloads.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func New(cfg Config, opts ...Option) *Client {
	if cfg.Payload == "" {
		cfg.Payload = PayloadMultipart
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	r := resty.New()
	r.SetTimeout(cfg.Timeout)
	r.SetRetryCount(0)
	r.SetHeader("Accept", "*/*")
	r.SetHeaders(cfg.Headers)

	c := &Client{
		http: r,
		cfg:  cfg,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckIn submits one check-in record.
func (c *Client) CheckIn(ctx context.Context) error {
	return c.post(ctx, "check-in", c.cfg.CheckInURL, c.cfg.Payload)
}

// CheckOut submits one check-out record. The check-out endpoint always takes
// the multipart form, whatever contract check-in uses.
func (c *Client) CheckOut(ctx context.Context) error {
	return c.post(ctx, "check-out", c.cfg.CheckOutURL, PayloadMultipart)
}

func (c *Client) post(ctx context.Context, op, url string, payload Payload) error {
	req, err := c.request(ctx, payload)
	if err != nil {
		return err
	}

	resp, err := req.Post(url)
	if err != nil {
		return fmt.Errorf("post %s: %w", op, err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("%s: %w: %d", op, ErrUnexpectedStatus, resp.StatusCode())
	}
	return nil
}

func (c *Client) request(ctx context.Context, payload Payload) (*resty.Request, error) {
	req := c.http.R().SetContext(ctx)

	switch payload {
	case PayloadMultipart:
		req.SetHeader("X-Requested-With", "XMLHttpRequest")
		if c.cfg.Referer != "" {
			req.SetHeader("Referer", c.cfg.Referer)
		}
		req.SetMultipartFormData(c.cfg.Form.Fields())
	case PayloadJSON:
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(map[string]string{
			"timestamp": c.now().UTC().Format(isoMillis),
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPayload, payload)
	}

	return req, nil
}
