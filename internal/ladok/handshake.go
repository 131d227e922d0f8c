package ladok

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/monperrus/ladok3/internal/ladok/markup"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

// The continuation the single-logout-aware redirector embeds in its URL.
var returnRe = regexp.MustCompile(`return=(.*?)(&|$)`)

// Marker the GUI shows when federation succeeded but the account has no
// teacher role in Ladok.
const noTeacherMarker = "Din användare finns inte i Ladok"

// Login runs the federated sign-on handshake: Ladok redirects through the
// identity broker to the institution's identity provider, the credential
// form is scraped and submitted, and the resulting SAML assertion is posted
// back to Ladok. On success the session cookies (including the XSRF token)
// are established, the grade catalog is loaded and the session goes active.
//
// The redirect chain and form fields must be replayed exactly; the flow
// depends on undocumented behavior of the login pages. A missing fragment
// means the pages changed shape and surfaces as ErrLoginPageChanged, except
// for the form carrying the SAML assertion: its absence is how the identity
// provider says the credentials were wrong.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if _, _, err := s.fetch(ctx, http.MethodGet, s.env.guiURL()+"/loggain", nil); err != nil {
		return fmt.Errorf("login entry point: %w", err)
	}

	_, finalURL, err := s.fetch(ctx, http.MethodGet, s.env.guiURL()+"/shiblogin", nil)
	if err != nil {
		return fmt.Errorf("shiblogin redirect: %w", err)
	}

	m := returnRe.FindStringSubmatch(finalURL)
	if m == nil {
		return fmt.Errorf("%w: no return continuation in %s", apperrors.ErrLoginPageChanged, finalURL)
	}
	continuation, err := url.QueryUnescape(m[1])
	if err != nil {
		return fmt.Errorf("%w: undecodable return continuation", apperrors.ErrLoginPageChanged)
	}

	if _, _, err := s.fetch(ctx, http.MethodGet, continuation+"&entityID="+s.env.IDPEntityID, nil); err != nil {
		return fmt.Errorf("identity provider selection: %w", err)
	}

	body, _, err := s.fetch(ctx, http.MethodPost, s.env.SSOInitURL, idleSessionForm())
	if err != nil {
		return fmt.Errorf("sso initiation: %w", err)
	}

	action, err := markup.FormAction(body, "fm1")
	if err != nil {
		return markupErr(err)
	}
	lt, err := markup.HiddenInput(body, "lt")
	if err != nil {
		return markupErr(err)
	}
	execution, err := markup.HiddenInput(body, "execution")
	if err != nil {
		return markupErr(err)
	}

	body, _, err = s.fetch(ctx, http.MethodPost, s.env.LoginBaseURL+action, url.Values{
		"username":  {username},
		"password":  {password},
		"lt":        {lt},
		"execution": {execution},
		"_eventId":  {"submit"},
		"subimt":    {"Logga in"},
	})
	if err != nil {
		return fmt.Errorf("credential submission: %w", err)
	}

	// The hand-off page is recognized by the form carrying the assertion.
	// On a wrong username or password the identity provider re-renders the
	// credential form with fresh lt and execution tokens instead, and no
	// such form is present.
	action, err = markup.FormActionWithInput(body, "SAMLResponse")
	if err != nil {
		if errors.Is(err, markup.ErrNotFound) {
			return apperrors.ErrInvalidCredentials
		}
		return markupErr(err)
	}
	relayState, err := markup.HiddenInput(body, "RelayState")
	if err != nil {
		return markupErr(err)
	}
	samlResponse, err := markup.HiddenInput(body, "SAMLResponse")
	if err != nil {
		return markupErr(err)
	}

	body, _, err = s.fetch(ctx, http.MethodPost, action, url.Values{
		"RelayState":   {relayState},
		"SAMLResponse": {samlResponse},
	})
	if err != nil {
		return fmt.Errorf("assertion consumer: %w", err)
	}

	if strings.Contains(body, noTeacherMarker) {
		return apperrors.ErrNotAuthorized
	}

	s.transport.active = true
	if err := s.loadCatalog(ctx); err != nil {
		s.transport.active = false
		return fmt.Errorf("loading grade catalog: %w", err)
	}

	s.log.Info().Str("environment", s.env.BaseURL).Msg("Signed in to Ladok")
	return nil
}

// idleSessionForm is the no-op local-storage probe the identity provider
// expects before it renders the credential form.
func idleSessionForm() url.Values {
	return url.Values{
		"shib_idp_ls_exception.shib_idp_session_ss":    {""},
		"shib_idp_ls_success.shib_idp_session_ss":      {"true"},
		"shib_idp_ls_value.shib_idp_session_ss":        {""},
		"shib_idp_ls_exception.shib_idp_persistent_ss": {""},
		"shib_idp_ls_success.shib_idp_persistent_ss":   {"true"},
		"shib_idp_ls_value.shib_idp_persistent_ss":     {""},
		"shib_idp_ls_supported":                        {"true"},
		"_eventId_proceed":                             {""},
	}
}

// fetch follows redirects and returns the final body and final URL. It goes
// around the authenticated transport because it runs before the session is
// active, but shares its cookie jar.
func (s *Session) fetch(ctx context.Context, method, rawURL string, form url.Values) (string, string, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return "", "", err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.transport.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	return string(body), resp.Request.URL.String(), nil
}

func markupErr(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrLoginPageChanged, err)
}
