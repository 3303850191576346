// Package hub is the typed client for the hub's JSON API. Every response
// carries a status envelope; only "success" yields data.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/anicoll/insteon-panel/internal/pkg/config"
)

const contentTypeJSON = "application/json; charset=utf-8"

// ErrHubStatus wraps any envelope status other than "success".
var ErrHubStatus = errors.New("hub reported failure")

type Client struct {
	base     string
	username string
	password string
	http     *http.Client
	logger   *zap.Logger
}

func New(cfg *config.HubConfig) (*Client, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("hub url is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse hub url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported hub url scheme %q", u.Scheme)
	}
	return &Client{
		base:     strings.TrimSuffix(u.String(), "/"),
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: cfg.RequestTimeout},
		logger:   zap.L(),
	}, nil
}

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (e envelope) err() error {
	if e.Status == "success" {
		return nil
	}
	if e.Message != "" {
		return fmt.Errorf("%w: %s (%s)", ErrHubStatus, e.Status, e.Message)
	}
	return fmt.Errorf("%w: %s", ErrHubStatus, e.Status)
}

// do issues one request and decodes the body into out, which must embed
// the envelope. A nil out still consumes and checks the envelope.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("hub request", zap.String("method", method), zap.String("path", path))
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("hub returned %d for %s %s", res.StatusCode, method, path)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode hub response: %w", err)
	}
	if err := env.err(); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
