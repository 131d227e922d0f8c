package report

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/monperrus/ladok3/internal/config"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

func serviceFor(baseURL string) *Service {
	cfg := &config.Config{}
	cfg.Ladok.Environment = "test"
	cfg.Ladok.BaseURL = baseURL
	cfg.Ladok.Username = "alba"
	cfg.Ladok.Password = "hunter2"
	cfg.Ladok.Timeout = time.Second
	return NewService(cfg, nil)
}

func TestEnsureSessionTransportFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // sign-in now hits a dead endpoint

	err := serviceFor(srv.URL).ensureSession(context.Background())
	var rerr apperrors.RetryableError
	assert.ErrorAs(t, err, &rerr)
}

func TestEnsureSessionPageChangeIsPermanent(t *testing.T) {
	// Every page answers 200 without the expected redirect chain, which is
	// what a reworked login GUI would look like.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>ny inloggning</html>")
	}))
	defer srv.Close()

	err := serviceFor(srv.URL).ensureSession(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrLoginPageChanged)

	var rerr apperrors.RetryableError
	assert.False(t, errors.As(err, &rerr), "permanent sign-in failures must not circulate")
}
