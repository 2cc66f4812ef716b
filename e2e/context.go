package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries HTTP state across the steps of one scenario.
type TestContext struct {
	baseURL string
	runID   string
	client  *http.Client

	status int
	body   []byte

	tokens      map[string]string
	lastEventID string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		runID:   fmt.Sprintf("%d", time.Now().UnixNano()),
		client:  &http.Client{Timeout: 10 * time.Second},
		tokens:  make(map[string]string),
	}
}

// Reset clears per-scenario state and picks a fresh run id so accounts never
// collide with earlier runs against the same database.
func (tc *TestContext) Reset() {
	tc.status = 0
	tc.body = nil
	tc.tokens = make(map[string]string)
	tc.lastEventID = ""
	tc.runID = fmt.Sprintf("%d", time.Now().UnixNano())
}

// Email rewrites "alice@sso.com" to "alice+<run>@sso.com". The domain, which
// decides the role, is left alone.
func (tc *TestContext) Email(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local + "+" + tc.runID + "@" + domain
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body, "")
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers["Authorization"])
}

// As sends a request with the named user's bearer token.
func (tc *TestContext) As(user, method, path string, body any) error {
	token, ok := tc.tokens[user]
	if !ok {
		return fmt.Errorf("%s has no session", user)
	}
	return tc.do(method, path, body, "Bearer "+token)
}

func (tc *TestContext) do(method, path string, body any, authorization string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.body, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) GetStatus() int { return tc.status }

// GetResponseField returns a top-level field or a dotted path such as
// "event.id".
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.body, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(field, ".") {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q not found in %s", field, tc.body)
		}
		if doc, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %q not found in %s", field, tc.body)
		}
	}
	return doc, nil
}

func (tc *TestContext) SetToken(user, token string) { tc.tokens[user] = token }

func (tc *TestContext) ForgetToken(user string) { delete(tc.tokens, user) }

func (tc *TestContext) GetLastEventID() string { return tc.lastEventID }

func (tc *TestContext) SetLastEventID(id string) { tc.lastEventID = id }
