package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tiffinctl",
	Short: "Control the TiffinHub server",
	Long:  `tiffinctl manages the TiffinHub server: migrations, configuration, scheduled jobs and the server process itself.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main(). It only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
