package cmd

import (
	"teamtune/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the TeamTune HTTP server",
	Long:  `Start the TeamTune API server serving the playlist, discovery and account endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
