package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "healthmon dev"), out.String())
}

func TestOverridesOnlyChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "sample"}
	flags := &serveFlags{}
	bindFlags(cmd, flags)

	require.NoError(t, cmd.ParseFlags([]string{"--addr", "127.0.0.1:8080", "--debug=false"}))

	assert.Equal(t, map[string]any{
		"server.address.http": "127.0.0.1:8080",
		"server.debug":        false,
	}, overrides(cmd, flags))
}

func TestOverridesDefaultsLeaveConfigAlone(t *testing.T) {
	cmd := &cobra.Command{Use: "sample"}
	flags := &serveFlags{}
	bindFlags(cmd, flags)

	require.NoError(t, cmd.ParseFlags(nil))

	assert.Empty(t, overrides(cmd, flags))
	assert.True(t, flags.debug)
}

func TestRootHasServe(t *testing.T) {
	cmd := newRootCmd()

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
}
