package cmd

import (
	"fmt"
	"os"

	"teamtune/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "teamtune",
	Short: "TeamTune is a collaborative Spotify playlist service.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
