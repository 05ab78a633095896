package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"teamtune/core/spotify"

	"github.com/spf13/cobra"
)

var (
	searchKeyword string
	accessToken   string
	searchLimit   int
)

var spotifyCmd = &cobra.Command{
	Use:   "spotify",
	Short: "Spotify catalog search from the command line",
	Long:  `Search the Spotify track catalog directly, useful for checking credentials and inspecting raw results.`,
	Run: func(cmd *cobra.Command, args []string) {
		if searchKeyword == "" {
			fmt.Println("A search keyword is required, use -q")
			os.Exit(1)
		}
		if accessToken == "" {
			accessToken = os.Getenv("SPOTIFY_ACCESS_TOKEN")
		}
		if accessToken == "" {
			fmt.Println("An access token is required, use -t or SPOTIFY_ACCESS_TOKEN")
			os.Exit(1)
		}

		client := spotify.NewClient(accessToken)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		fmt.Printf("Searching for: %s\n", searchKeyword)
		page, err := client.SearchTracks(ctx, searchKeyword, searchLimit)
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}

		if len(page.Items) == 0 {
			fmt.Println("No tracks found")
			return
		}

		fmt.Printf("\nFound %d tracks:\n", len(page.Items))
		for i, track := range page.Items {
			artistNames := make([]string, len(track.Artists))
			for j, artist := range track.Artists {
				artistNames[j] = artist.Name
			}
			fmt.Printf("%d. %s - %s [%s] (%s)\n",
				i+1,
				track.Name,
				strings.Join(artistNames, ", "),
				track.Album.Name,
				(time.Duration(track.DurationMs) * time.Millisecond).Round(time.Second))
		}
	},
}

func init() {
	rootCmd.AddCommand(spotifyCmd)

	spotifyCmd.Flags().StringVarP(&searchKeyword, "query", "q", "", "Track search keyword")
	spotifyCmd.Flags().StringVarP(&accessToken, "token", "t", "", "Spotify access token")
	spotifyCmd.Flags().IntVarP(&searchLimit, "limit", "l", 10, "Number of results to request")

	spotifyCmd.Example = `  # Search for a track
  teamtune spotify -q "bohemian rhapsody" -t <access token>

  # Token from the environment
  SPOTIFY_ACCESS_TOKEN=<token> teamtune spotify -q daft`
}
