package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox_RoundTrip(t *testing.T) {
	box, err := NewBox("hub-dev-key")
	require.NoError(t, err)

	sealed, err := box.Seal([]byte(`{"mobile":"9876543210","password":"pw"}`))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "9876543210")

	opened, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"mobile":"9876543210","password":"pw"}`, string(opened))
}

func TestBox_SealIsNonDeterministic(t *testing.T) {
	box, err := NewBox("hub-dev-key")
	require.NoError(t, err)

	a, err := box.Seal([]byte("same value"))
	require.NoError(t, err)
	b, err := box.Seal([]byte("same value"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBox_WrongKeyFailsToOpen(t *testing.T) {
	box, err := NewBox("key-one")
	require.NoError(t, err)
	other, err := NewBox("key-two")
	require.NoError(t, err)

	sealed, err := box.Seal([]byte("secret"))
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, ErrOpenFailed)
}

func TestBox_OpenRejectsTruncatedValue(t *testing.T) {
	box, err := NewBox("hub-dev-key")
	require.NoError(t, err)

	_, err = box.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrOpenFailed)
}

func TestNewBox_EmptyPassphrase(t *testing.T) {
	_, err := NewBox("")
	assert.Error(t, err)
}
