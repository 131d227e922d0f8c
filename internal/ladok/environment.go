package ladok

import "github.com/monperrus/ladok3/internal/config"

// Environment holds the endpoints of one Ladok installation and of the
// identity federation in front of it.
type Environment struct {
	// BaseURL is the Ladok GUI host, e.g. https://www.start.ladok.se.
	BaseURL string
	// IDPEntityID selects the institution's identity provider at the
	// discovery service.
	IDPEntityID string
	// SSOInitURL is the identity provider's SSO execution endpoint that the
	// idle-session form is posted to.
	SSOInitURL string
	// LoginBaseURL is the host the credential form action is relative to.
	LoginBaseURL string
}

func Production() Environment {
	return Environment{
		BaseURL:      "https://www.start.ladok.se",
		IDPEntityID:  "https://saml.sys.kth.se/idp/shibboleth",
		SSOInitURL:   "https://saml-5.sys.kth.se/idp/profile/SAML2/Redirect/SSO?execution=e1s1",
		LoginBaseURL: "https://login.kth.se",
	}
}

// Test returns the environment of the Ladok test installation. The
// federation endpoints are shared with production.
func Test() Environment {
	env := Production()
	env.BaseURL = "https://www.test.ladok.se"
	return env
}

// EnvironmentFromConfig picks production or test per the config and applies
// any endpoint overrides.
func EnvironmentFromConfig(cfg *config.Config) Environment {
	env := Production()
	if cfg.Ladok.Environment == "test" {
		env = Test()
	}
	if cfg.Ladok.BaseURL != "" {
		env.BaseURL = cfg.Ladok.BaseURL
	}
	if cfg.Ladok.IDPEntityID != "" {
		env.IDPEntityID = cfg.Ladok.IDPEntityID
	}
	if cfg.Ladok.SSOInitURL != "" {
		env.SSOInitURL = cfg.Ladok.SSOInitURL
	}
	if cfg.Ladok.LoginBaseURL != "" {
		env.LoginBaseURL = cfg.Ladok.LoginBaseURL
	}
	return env
}

func (e Environment) guiURL() string {
	return e.BaseURL + "/gui"
}

func (e Environment) proxyURL() string {
	return e.BaseURL + "/gui/proxy"
}
