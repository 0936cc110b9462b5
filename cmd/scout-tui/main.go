package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/scoutly/creatorscout/pkg/driver"
	"github.com/scoutly/creatorscout/pkg/registry"
	"github.com/scoutly/creatorscout/pkg/session"
	"github.com/scoutly/creatorscout/pkg/suggest"
)

var (
	suggestURL string
	searchURL  string
	platform   string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "scout-tui",
	Short: "Interactive creator discovery filter console",
	Long:  `Terminal client for browsing and applying creator discovery filters against a remote search service.`,
	RunE:  runTUI,
}

func init() {
	rootCmd.Flags().StringVar(&suggestURL, "suggest-url", "", "base URL of the suggestion service")
	rootCmd.Flags().StringVar(&searchURL, "search-url", "", "URL of the search execution service")
	rootCmd.Flags().StringVar(&platform, "platform", "instagram", "social network to scope suggestions to")
	rootCmd.Flags().StringVar(&configFile, "config", "", "facet override file (yaml)")
	rootCmd.MarkFlagRequired("suggest-url")
	rootCmd.MarkFlagRequired("search-url")
}

func runTUI(cmd *cobra.Command, args []string) error {
	reg := registry.MustDefault()
	if configFile != "" {
		loaded, err := registry.LoadFile(configFile)
		if err != nil {
			return fmt.Errorf("load facet config: %w", err)
		}
		reg = loaded
	}

	s := session.New("tui", session.Options{
		Registry: reg,
		Fetcher: suggest.NewHTTPFetcher(suggest.HTTPFetcherOptions{
			BaseURL:  suggestURL,
			Platform: platform,
			Timeout:  4 * time.Second,
		}),
		SearchClient: driver.NewHTTPSearchClient(searchURL),
	})

	p := tea.NewProgram(newModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
