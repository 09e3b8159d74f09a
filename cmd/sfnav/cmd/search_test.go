package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchCommandStructure(t *testing.T) {
	assert.Equal(t, "search <object> <text>", searchCmd.Use)
	assert.NotEmpty(t, searchCmd.Short)
	assert.NotNil(t, searchCmd.RunE)

	flag := searchCmd.Flags().Lookup("fields")
	assert.NotNil(t, flag, "search should expose --fields")
}
