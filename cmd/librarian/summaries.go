package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"librarian/internal/fetcher"
)

var (
	summariesLanguage string
	summariesWorkers  int
)

var summariesCmd = &cobra.Command{
	Use:   "summaries <title> [title...]",
	Short: "Fetch summaries for several pages concurrently",
	Long: `Looks up the summary of each given page title using a worker pool.
All lookups share the configured rate limiter, so concurrency never
exceeds the outbound request budget.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummaries,
}

func init() {
	summariesCmd.Flags().StringVarP(&summariesLanguage, "language", "l", "", "Wikipedia language code (default from config)")
	summariesCmd.Flags().IntVarP(&summariesWorkers, "workers", "w", 3, "number of concurrent lookups")
	rootCmd.AddCommand(summariesCmd)
}

func runSummaries(cmd *cobra.Command, args []string) error {
	limiter, err := newLimiter()
	if err != nil {
		return err
	}
	factory := newClientFactory(limiter)

	pool := fetcher.NewPool(summariesWorkers, func(language string) fetcher.SummaryClient {
		return factory(language)
	}, log)
	pool.Start()

	done := make(chan []fetcher.Result)
	go func() {
		var results []fetcher.Result
		for result := range pool.Results() {
			results = append(results, result)
		}
		done <- results
	}()

	for _, title := range args {
		if err := pool.Submit(fetcher.Job{Title: title, Language: summariesLanguage}); err != nil {
			return err
		}
	}
	pool.Stop()

	var failures int
	for _, result := range <-done {
		fmt.Printf("== %s ==\n", result.Job.Title)
		if result.Err != nil {
			failures++
			fmt.Printf("error: %v\n\n", result.Err)
			continue
		}
		if result.Summary.Description != "" {
			fmt.Println(result.Summary.Description)
		}
		fmt.Printf("%s\n\n", result.Summary.Extract)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d lookups failed", failures, len(args))
	}
	return nil
}
