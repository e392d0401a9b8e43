package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordMatches(t *testing.T) {
	hashed, err := HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := PasswordMatches(hashed, "correct-horse")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = PasswordMatches(hashed, "wrong-horse")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = PasswordMatches("not-a-bcrypt-hash", "correct-horse")
	require.Error(t, err)
}

func TestHashPasswordClampsCost(t *testing.T) {
	hashed, err := HashPassword("correct-horse", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}
