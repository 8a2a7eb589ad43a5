package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

func TestHashAndCheck(t *testing.T) {
	t.Parallel()

	h, err := HashPasswordCost("member123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "member123", h)

	assert.True(t, CheckPassword(h, "member123"))
	assert.False(t, CheckPassword(h, "member124"))
	assert.False(t, CheckPassword("not-a-hash", "member123"))
}

func TestHashTooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPasswordCost(strings.Repeat("x", MaxPasswordBytes+1), bcrypt.MinCost)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
