package root

import "github.com/spf13/cobra"

var RootCmd = &cobra.Command{
	Use:   "handoff",
	Short: "Ward handoff CLI",
	Long:  "Command line client for the ward handoff API: account management and patient-handoff notes.",
}
