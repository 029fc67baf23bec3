package access

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCheckerSendsBearerAndAcceptsSuccess(t *testing.T) {
	var gotAuth, gotMethod string
	var gotBody int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		gotBody = r.ContentLength
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	checker := NewHTTPChecker(srv.URL+"/auth/check", time.Second)
	require.NoError(t, checker.Check(context.Background(), "abc123"))
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.LessOrEqual(t, gotBody, int64(0))
}

func TestHTTPCheckerRejectsNon2xx(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
		err := NewHTTPChecker(srv.URL, time.Second).Check(context.Background(), "abc123")
		srv.Close()
		assert.ErrorIs(t, err, ErrTokenRejected, "status %d", status)
	}
}

func TestHTTPCheckerTransportErrorIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewHTTPChecker(url, 200*time.Millisecond).Check(context.Background(), "abc123")
	assert.Error(t, err)
}

func TestHTTPCheckerExpiredContext(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err := NewHTTPChecker("http://127.0.0.1:1", time.Second).Check(ctx, "abc123")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type verifierFunc func(ctx context.Context, token string) error

func (f verifierFunc) VerifyAccessToken(ctx context.Context, token string) error { return f(ctx, token) }

func TestLocalCheckerDelegatesToVerifier(t *testing.T) {
	var seen []string
	checker := NewLocalChecker(verifierFunc(func(_ context.Context, token string) error {
		seen = append(seen, token)
		if token != "good" {
			return errors.New("account inactive")
		}
		return nil
	}))

	assert.NoError(t, checker.Check(context.Background(), "good"))
	err := checker.Check(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrTokenRejected)
	assert.Contains(t, err.Error(), "account inactive")
	assert.Equal(t, []string{"good", "abc123"}, seen)
}
