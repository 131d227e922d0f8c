package ladok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

// Every resource family the proxy can answer with; Ladok rejects requests
// whose Accept header does not list the vendor type of the response.
const acceptHeader = "application/vnd.ladok-resultat+json, application/vnd.ladok-kataloginformation+json, application/vnd.ladok-studentinformation+json, application/vnd.ladok-studiedeltagande+json, application/vnd.ladok-utbildningsinformation+json, application/vnd.ladok-examen+json, application/vnd.ladok-extintegration+json, application/vnd.ladok-uppfoljning+json, application/vnd.ladok-extra+json, application/json, text/plain"

const resultContentType = "application/vnd.ladok-resultat+json"

// transport owns the cookie jar established by the handshake and stamps the
// headers every proxy call needs. Mutating calls re-read the XSRF token from
// the jar each time because the service may rotate it.
type transport struct {
	client *http.Client
	env    Environment
	active bool
}

func newTransport(env Environment, timeout time.Duration) *transport {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &transport{
		client: &http.Client{Jar: jar, Timeout: timeout},
		env:    env,
	}
}

// getJSON issues a GET against the proxy and decodes the body into out.
func (t *transport) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := t.doGet(ctx, t.env.proxyURL()+path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", path, err)
	}
	return nil
}

// getRaw returns the proxy response verbatim, for pass-through accessors.
func (t *transport) getRaw(ctx context.Context, path string) (json.RawMessage, error) {
	return t.doGet(ctx, t.env.proxyURL()+path)
}

// getRawGUI is getRaw for the handful of endpoints that live on the GUI
// itself rather than behind the proxy.
func (t *transport) getRawGUI(ctx context.Context, path string) (json.RawMessage, error) {
	return t.doGet(ctx, t.env.guiURL()+path)
}

func (t *transport) doGet(ctx context.Context, rawURL string) ([]byte, error) {
	if !t.active {
		return nil, apperrors.ErrNotSignedIn
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (t *transport) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return t.mutate(ctx, http.MethodPost, path, payload, resultContentType)
}

func (t *transport) putJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return t.mutate(ctx, http.MethodPut, path, payload, resultContentType)
}

// mutate performs an authenticated state-changing call. The response body is
// returned without a status check; callers decide what a rejection looks
// like, since the service reports most failures inside a 200 body.
func (t *transport) mutate(ctx context.Context, method, path string, payload interface{}, contentType string) ([]byte, error) {
	if !t.active {
		return nil, apperrors.ErrNotSignedIn
	}

	token, err := t.xsrfToken()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.env.proxyURL()+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-XSRF-TOKEN", token)
	req.Header.Set("Referer", t.env.guiURL())
	req.Header.Set("Origin", t.env.BaseURL)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func (t *transport) xsrfToken() (string, error) {
	u, err := url.Parse(t.env.BaseURL)
	if err != nil {
		return "", err
	}
	for _, c := range t.client.Jar.Cookies(u) {
		if c.Name == "XSRF-TOKEN" {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("no XSRF-TOKEN cookie in session")
}
