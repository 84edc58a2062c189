package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortress-labs/auth-service/internal/auth/service"
	apperrors "github.com/fortress-labs/auth-service/internal/errors"
)

func TestCSRFService_Generate(t *testing.T) {
	s := service.NewCSRFService()

	t1, err := s.Generate()
	require.NoError(t, err)
	t2, err := s.Generate()
	require.NoError(t, err)

	assert.NotEmpty(t, t1)
	assert.NotEqual(t, t1, t2)
}

func TestCSRFService_Verify(t *testing.T) {
	s := service.NewCSRFService()

	t.Run("match succeeds", func(t *testing.T) {
		assert.NoError(t, s.Verify("token-x", "token-x"))
	})

	t.Run("missing header", func(t *testing.T) {
		assert.ErrorIs(t, s.Verify("", "token-x"), apperrors.ErrForbidden)
	})

	t.Run("missing cookie", func(t *testing.T) {
		assert.ErrorIs(t, s.Verify("token-x", ""), apperrors.ErrForbidden)
	})

	t.Run("mismatch", func(t *testing.T) {
		assert.ErrorIs(t, s.Verify("token-x", "token-y"), apperrors.ErrForbidden)
	})
}
