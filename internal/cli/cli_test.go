package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := RootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "formbuilder version "+Version)
}

func TestAdminCreateRejectsMemoryStore(t *testing.T) {
	t.Setenv("FORMS_STORE", "memory")
	cmd := RootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"admin", "create", "--name", "Ada", "--email", "ada@example.com", "--password", "long-password"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo store")
}
