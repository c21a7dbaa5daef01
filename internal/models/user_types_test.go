package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetAndMatches(t *testing.T) {
	var p Password
	require.NoError(t, p.Set("Secret123"))
	require.NotEmpty(t, p.Hash)
	assert.NotEqual(t, "Secret123", p.Hash)

	match, err := p.Matches("Secret123")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = p.Matches("WrongPass1")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		assert.True(t, ValidOrderStatus(s), s)
	}
	assert.False(t, ValidOrderStatus("refunded"))
	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("Pending"))
}
