package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPipe(t *testing.T) {
	t.Run("no pipe", func(t *testing.T) {
		command, pipe, err := splitPipe("ls")
		require.NoError(t, err)
		assert.Equal(t, "ls", command)
		assert.Nil(t, pipe)
	})

	t.Run("sort ascending", func(t *testing.T) {
		command, pipe, err := splitPipe("ls | sort Name")
		require.NoError(t, err)
		assert.Equal(t, "ls", command)
		require.NotNil(t, pipe)
		assert.Equal(t, "Name", pipe.field)
		assert.False(t, pipe.descending)
	})

	t.Run("sort descending", func(t *testing.T) {
		_, pipe, err := splitPipe("ls | sort Amount -desc")
		require.NoError(t, err)
		assert.True(t, pipe.descending)
	})

	t.Run("unsupported pipe target", func(t *testing.T) {
		_, _, err := splitPipe("ls | grep foo")
		assert.Error(t, err)
	})

	t.Run("sort without field", func(t *testing.T) {
		_, _, err := splitPipe("ls | sort")
		assert.Error(t, err)
	})
}

func TestParseSearchFlags(t *testing.T) {
	fields, limit, rest, err := parseSearchFlags([]string{
		"Account", "Axalta", "Coating", "--fields", "Id,Name, Phone", "--limit", "25",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Name", "Phone"}, fields)
	assert.Equal(t, 25, limit)
	assert.Equal(t, []string{"Account", "Axalta", "Coating"}, rest)

	_, _, _, err = parseSearchFlags([]string{"Account", "--limit", "zero"})
	assert.Error(t, err)

	_, _, _, err = parseSearchFlags([]string{"Account", "--fields"})
	assert.Error(t, err)
}

func TestRawArgs(t *testing.T) {
	assert.Equal(t, "SELECT Id FROM Account", rawArgs("query SELECT Id FROM Account"))
	assert.Equal(t, "", rawArgs("query"))
}
