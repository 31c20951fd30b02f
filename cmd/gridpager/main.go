// Command gridpager renders, serves and browses paged grids.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/rshade/gridpager/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
func run(args []string) int {
	// A missing .env is normal.
	_ = godotenv.Load(".env")

	root := cli.NewRootCmd(version)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
