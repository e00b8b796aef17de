package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nagyistge/cloud-functions-emulator/internal/store"
)

type bodyKind int

const (
	bodyEmpty bodyKind = iota
	bodyJSON
	bodyString
)

// Body is the request payload of an Action. Callers either have a native
// value (JSONBody) or a pre-serialized JSON string (StringBody); both are
// normalized to the same outgoing JSON, so the two forms are
// interchangeable.
type Body struct {
	kind  bodyKind
	value any
	text  string
}

func EmptyBody() Body          { return Body{} }
func JSONBody(v any) Body      { return Body{kind: bodyJSON, value: v} }
func StringBody(s string) Body { return Body{kind: bodyString, text: s} }

func (b Body) payload() ([]byte, error) {
	switch b.kind {
	case bodyJSON:
		return json.Marshal(b.value)
	case bodyString:
		// Parse-then-marshal so a string body and the equivalent native
		// value produce identical bytes on the wire.
		var v any
		if err := json.Unmarshal([]byte(b.text), &v); err != nil {
			return nil, fmt.Errorf("parse request body: %w", err)
		}
		return json.Marshal(v)
	default:
		return nil, nil
	}
}

// Action describes one HTTP call against the running server. Method
// defaults to GET. When Raw is set the response is returned undecoded
// whatever its status; otherwise a non-2xx status becomes an error and the
// body is handed back for JSON decoding by the caller.
type Action struct {
	Method  string
	Path    string
	Query   url.Values
	Body    Body
	Timeout time.Duration
	Raw     bool
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (c *Controller) do(ctx context.Context, rec *store.Record, a Action) (*Response, error) {
	if a.Method == "" {
		a.Method = http.MethodGet
	}
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(rec.Host, strconv.Itoa(rec.Port)),
		Path:   a.Path,
	}
	if a.Query != nil {
		u.RawQuery = a.Query.Encode()
	}
	payload, err := a.Body.payload()
	if err != nil {
		return nil, err
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = c.cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, a.Method, u.String(), rd)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: data}
	if a.Raw {
		return out, nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errorResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errorResp) == nil && errorResp.Error != "" {
			return nil, fmt.Errorf("API error: %s", errorResp.Error)
		}
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return out, nil
}
