package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobfacts/internal/store"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show stored views, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum number of views (0 for all)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	s, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	views, err := s.List(listLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list views: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-14s %-16s %-30s %-26s %s\n", "Enriched", "Company", "Title", "Salary", "Location")
	fmt.Println(strings.Repeat("─", 110))
	for _, v := range views {
		fmt.Printf("%-14s %-16s %-30s %-26s %s\n",
			humanize.Time(v.EnrichedAt),
			truncate(v.Company, 16),
			truncate(v.Title, 30),
			orDash(v.Salary),
			v.Location,
		)
	}
	fmt.Printf("\n%s views shown\n", humanize.Comma(int64(len(views))))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
