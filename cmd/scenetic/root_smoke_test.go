package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTUIRequiresTerminal(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	oldStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = oldStdin }()

	err = runTUI(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a terminal")
}

func TestRootHelpListsCommands(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	for _, name := range []string{"login", "register", "logout", "tags", "scan", "keywords", "logs"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestSubcommandInstallsLogger(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logger = nil

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"logout", "--verbose"})

	require.NoError(t, root.Execute())
	require.NotNil(t, logger)
	assert.True(t, verbose)
	verbose = false
}
