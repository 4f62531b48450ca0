package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTurn_UniqueIDs(t *testing.T) {
	a := NewTurn(AuthorUser, "hello")
	b := NewTurn(AuthorUser, "hello")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, AuthorUser, a.Author)
	assert.Equal(t, "hello", a.Text)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("\n\t"))
	assert.False(t, IsBlank("hi"))
	assert.False(t, IsBlank("  hi  "))
}
