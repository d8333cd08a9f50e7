package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taken(ids ...string) ExistsFunc {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(_ context.Context, candidate string) (bool, error) {
		return set[candidate], nil
	}
}

func TestTempPassword(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		p, err := TempPassword()
		require.NoError(t, err)
		assert.Len(t, p, TempPasswordLength)
		assert.Regexp(t, `^[A-Za-z0-9]+$`, p)
		seen[p] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestOTP(t *testing.T) {
	code, err := OTP()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, code)
}

func TestUsername(t *testing.T) {
	ctx := context.Background()

	u, err := Username(ctx, "Jane", "Doe", taken())
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", u)

	u, err = Username(ctx, "Jane", "Doe", taken("jane.doe", "jane.doe1"))
	require.NoError(t, err)
	assert.Equal(t, "jane.doe2", u)

	u, err = Username(ctx, " Mary Ann ", "", taken())
	require.NoError(t, err)
	assert.Equal(t, "maryann.ems", u)
}

func TestEmployeeID(t *testing.T) {
	ctx := context.Background()

	id, err := EmployeeID(ctx, "Jane", "Doe", 2026, taken())
	require.NoError(t, err)
	assert.Equal(t, "jane.doe_2026", id)

	id, err = EmployeeID(ctx, "Jane", "Doe", 2026, taken("jane.doe_2026", "jane.doe_2026_1"))
	require.NoError(t, err)
	assert.Equal(t, "jane.doe_2026_2", id)
}

func TestUsername_LookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := Username(context.Background(), "a", "b", func(context.Context, string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", DisplayName("jane", "DOE"))
	assert.Equal(t, "Jane", DisplayName("jane", ""))
}
