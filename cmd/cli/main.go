package main

import (
	"os"

	"github.com/hanwool/handoff-api/cmd/cli/auth"
	"github.com/hanwool/handoff-api/cmd/cli/handoffs"
	"github.com/hanwool/handoff-api/cmd/cli/root"
)

func main() {
	auth.Init(root.RootCmd)
	handoffs.Init(root.RootCmd)

	if err := root.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
