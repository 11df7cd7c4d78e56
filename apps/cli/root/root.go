package root

import (
	"github.com/spf13/cobra"

	provisioncmd "github.com/zenGate-Global/palmyra-pool-provisioner/apps/cli/cmd/provision"
)

// rootCmd is the base command for the pool provisioner CLI.
var rootCmd = &cobra.Command{
	Use:           "pool-provisioner",
	Short:         "Elastic pool tenant database provisioner",
	Long:          "Provisions tenant databases inside Azure SQL elastic pools and issues scoped credentials.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(provisioncmd.Command())
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
