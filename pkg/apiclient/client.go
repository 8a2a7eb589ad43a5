package apiclient

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
	"time"

	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

// TokenSource returns the bearer token to send, or "" for none.
type TokenSource func() string

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

func NewClient(baseURL string, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		token: token,
	}
}

// WithToken returns a client sharing the connection pool that always sends
// token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = func() string { return token }
	return &cp
}

type validator interface {
	Validate() error
}

func validateAll[T validator](items []T) error {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
}

// do sends body as JSON and decodes the answer into out. Transport failures
// wrap apperr.ErrNetwork, error statuses map through apperr.FromStatus and
// an undecodable payload wraps apperr.ErrValidation.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tkn := c.token(); tkn != "" {
			req.Header.Set("Authorization", "Bearer "+tkn)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%s %s: %v: %w", method, path, err, apperr.ErrNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &eb) != nil || eb.Message == "" {
			eb.Message = strings.TrimSpace(string(raw))
		}
		return apperr.FromStatus(resp.StatusCode, eb.Message)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %v: %w", method, path, err, apperr.ErrValidation)
	}
	return nil
}
