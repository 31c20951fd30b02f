package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/gridpager/internal/cli"
)

func TestRun(t *testing.T) {
	t.Setenv("GRIDPAGER_HOME", t.TempDir())
	t.Setenv("GRIDPAGER_CONFIG", "")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "version", args: []string{"--version"}, want: 0},
		{name: "pager", args: []string{"pager", "--current", "2", "--total", "3", "--format", "text"}, want: 0},
		{name: "unknown command", args: []string{"nope"}, want: 1},
		{name: "invalid pager format", args: []string{"pager", "--format", "xml"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}

func TestRootCommand(t *testing.T) {
	root := cli.NewRootCmd(version)
	require.NotNil(t, root)
	assert.Equal(t, "gridpager", root.Use)
	assert.Equal(t, version, root.Version)
}
