// Package ladok is a client for the Ladok student-records GUI proxy. There
// is no public API; access goes through the institutional single sign-on
// federation, after which the proxy mirrors Ladok's internal REST resources
// as JSON.
package ladok

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/monperrus/ladok3/internal/config"
	"github.com/monperrus/ladok3/internal/logger"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

// Session is an authenticated connection to one Ladok environment. It owns
// the cookie jar, the XSRF token and the grade catalog loaded at sign-in.
// A Session is not safe for concurrent use; callers that want parallelism
// run one Session per worker.
type Session struct {
	env       Environment
	transport *transport
	catalog   *Catalog
	log       zerolog.Logger
}

func NewSession(env Environment, timeout time.Duration) *Session {
	return &Session{
		env:       env,
		transport: newTransport(env, timeout),
		log:       logger.With("ladok"),
	}
}

func NewFromConfig(cfg *config.Config) *Session {
	return NewSession(EnvironmentFromConfig(cfg), cfg.Ladok.Timeout)
}

func (s *Session) SignedIn() bool {
	return s.transport.active
}

// Logout terminates the session server-side and deactivates it locally.
func (s *Session) Logout(ctx context.Context) error {
	if !s.SignedIn() {
		return apperrors.ErrNotSignedIn
	}
	if _, err := s.transport.getRaw(ctx, "/logout"); err != nil {
		return err
	}
	s.transport.active = false
	s.log.Debug().Msg("Signed out of Ladok")
	return nil
}

// GradingScales returns the grade catalog loaded at sign-in.
func (s *Session) GradingScales() []GradeScale {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Scales()
}
