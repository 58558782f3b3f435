package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	pageLanguage   string
	pageSections   bool
	pageCategories bool
	pageFull       bool
)

var pageCmd = &cobra.Command{
	Use:   "page <title>",
	Short: "Show a Wikipedia page summary",
	Long: `Fetches a Wikipedia page and prints its summary. Flags select
additional detail such as the section outline or the full plain-text content.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPage,
}

func init() {
	pageCmd.Flags().StringVarP(&pageLanguage, "language", "l", "", "Wikipedia language code (default from config)")
	pageCmd.Flags().BoolVar(&pageSections, "sections", false, "list the page's section outline")
	pageCmd.Flags().BoolVar(&pageCategories, "categories", false, "list the page's categories")
	pageCmd.Flags().BoolVar(&pageFull, "full", false, "print the full plain-text content")
	rootCmd.AddCommand(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")

	limiter, err := newLimiter()
	if err != nil {
		return err
	}
	client := newClientFactory(limiter)(pageLanguage)

	exists, err := client.PageExists(title)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("page %q does not exist on %s.wikipedia.org", title, client.Language())
	}

	if pageFull {
		content, err := client.PageContent(title)
		if err != nil {
			return err
		}
		fmt.Println(content)
		return nil
	}

	summary, err := client.PageSummary(title)
	if err != nil {
		return err
	}

	fmt.Println(summary.Title)
	if summary.Description != "" {
		fmt.Println(summary.Description)
	}
	fmt.Println()
	fmt.Println(summary.Extract)

	if pageSections {
		sections, err := client.PageSections(title)
		if err != nil {
			return err
		}
		fmt.Println("\nSections:")
		for _, section := range sections {
			indent := strings.Repeat("  ", section.TOCLevel)
			fmt.Printf("%s%s %s\n", indent, section.Number, section.Line)
		}
	}

	if pageCategories {
		categories, err := client.PageCategories(title)
		if err != nil {
			return err
		}
		fmt.Println("\nCategories:")
		for _, category := range categories {
			fmt.Printf("  %s\n", category)
		}
	}

	return nil
}
