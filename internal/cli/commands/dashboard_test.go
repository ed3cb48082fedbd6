package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionSecret(t *testing.T) {
	assert.Equal(t, "configured", sessionSecret("configured"))

	a, b := sessionSecret(""), sessionSecret("")
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestDashboardCommand_Alias(t *testing.T) {
	cmd := NewDashboardCommand()
	assert.Contains(t, cmd.Aliases, "ui")
	watch := cmd.Flags().Lookup("watch")
	assert.Equal(t, "true", watch.DefValue)
}
