package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Function trigger types as the server reports them. On the wire they are
// abbreviated to H and B.
const (
	TypeHTTP       = "HTTP"
	TypeBackground = "BACKGROUND"
)

// FunctionInfo is the server's description of one deployed function.
type FunctionInfo struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Path     string         `json:"path"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Deploy registers the function exported as entryPoint by the module at
// modulePath. The path is resolved to an absolute path and must exist;
// trigger is "H"/"HTTP" or "B"/"BACKGROUND".
func (c *Controller) Deploy(ctx context.Context, entryPoint, modulePath, trigger string) (*FunctionInfo, error) {
	rec, err := c.record()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(modulePath)
	if err != nil {
		return nil, fmt.Errorf("resolve module path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("module path %s: %w", abs, err)
	}
	t, err := shortTrigger(trigger)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, rec, Action{
		Method: http.MethodPost,
		Path:   "/function/" + entryPoint,
		Query:  url.Values{"path": {abs}, "type": {t}},
	})
	if err != nil {
		return nil, err
	}
	var fn FunctionInfo
	if err := json.Unmarshal(resp.Body, &fn); err != nil {
		return nil, fmt.Errorf("decode function: %w", err)
	}
	return &fn, nil
}

// Undeploy removes a deployed function by name.
func (c *Controller) Undeploy(ctx context.Context, name string) error {
	rec, err := c.record()
	if err != nil {
		return err
	}
	_, err = c.do(ctx, rec, Action{Method: http.MethodDelete, Path: "/function/" + name})
	return err
}

// List returns all deployed functions by name.
func (c *Controller) List(ctx context.Context) (map[string]FunctionInfo, error) {
	rec, err := c.record()
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, rec, Action{Method: http.MethodGet, Path: "/function/"})
	if err != nil {
		return nil, err
	}
	var fns map[string]FunctionInfo
	if err := json.Unmarshal(resp.Body, &fns); err != nil {
		return nil, fmt.Errorf("decode function list: %w", err)
	}
	return fns, nil
}

// Describe returns the server's view of one deployed function.
func (c *Controller) Describe(ctx context.Context, name string) (*FunctionInfo, error) {
	rec, err := c.record()
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, rec, Action{Method: http.MethodGet, Path: "/function/" + name})
	if err != nil {
		return nil, err
	}
	var fn FunctionInfo
	if err := json.Unmarshal(resp.Body, &fn); err != nil {
		return nil, fmt.Errorf("decode function: %w", err)
	}
	return &fn, nil
}

// Call invokes a deployed function synchronously. The response is returned
// raw because the function may return anything, not necessarily JSON.
func (c *Controller) Call(ctx context.Context, name string, body Body) (*Response, error) {
	rec, err := c.record()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, rec, Action{
		Method: http.MethodPost,
		Path:   "/" + name,
		Body:   body,
		Raw:    true,
	})
}

// Clear removes all deployed functions.
func (c *Controller) Clear(ctx context.Context) error {
	rec, err := c.record()
	if err != nil {
		return err
	}
	_, err = c.do(ctx, rec, Action{Method: http.MethodDelete, Path: "/function/"})
	return err
}

// Prune removes functions whose backing module no longer exists on disk
// and returns how many were removed.
func (c *Controller) Prune(ctx context.Context) (int, error) {
	rec, err := c.record()
	if err != nil {
		return 0, err
	}
	resp, err := c.do(ctx, rec, Action{Method: http.MethodPatch, Path: "/function/"})
	if err != nil {
		return 0, err
	}
	var result struct {
		Pruned int `json:"pruned"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return 0, fmt.Errorf("decode prune result: %w", err)
	}
	return result.Pruned, nil
}

func shortTrigger(trigger string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(trigger)) {
	case "H", TypeHTTP:
		return "H", nil
	case "B", TypeBackground:
		return "B", nil
	default:
		return "", fmt.Errorf("unknown trigger type %q (want H or B)", trigger)
	}
}
