package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicPathsAllows(t *testing.T) {
	public := PublicPaths{"/login", "/auth/", "/health"}

	for _, p := range []string{"/login", "/login/reset", "/auth", "/auth/check", "/health/ready"} {
		assert.True(t, public.Allows(p), p)
	}
	for _, p := range []string{"/", "/loginx", "/dashboard", "/authority", "/payroll/login"} {
		assert.False(t, public.Allows(p), p)
	}
}
