package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchLimit    int
	searchLanguage string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Wikipedia pages",
	Long:  `Searches Wikipedia for pages matching the query and prints the results.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchLanguage, "language", "l", "", "Wikipedia language code (default from config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	limiter, err := newLimiter()
	if err != nil {
		return err
	}
	client := newClientFactory(limiter)(searchLanguage)

	results, err := client.Search(query, searchLimit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%2d. %s\n", i+1, result.Title)
		if snippet := stripMarkup(result.Snippet); snippet != "" {
			fmt.Printf("    %s\n", snippet)
		}
	}
	return nil
}

// stripMarkup removes the HTML highlight spans the search API embeds
func stripMarkup(s string) string {
	replacer := strings.NewReplacer(
		`<span class="searchmatch">`, "",
		"</span>", "",
	)
	return strings.TrimSpace(replacer.Replace(s))
}
