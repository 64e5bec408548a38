package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfacts/internal/config"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List all configured boards",
	Long:  "Reads the config and prints a table of all configured boards.",
	RunE:  runBoards,
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}

func runBoards(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-22s %-11s %-36s %-8s %s\n", "Board", "ATS", "Source", "Delay", "Status")
	fmt.Println(strings.Repeat("─", 88))

	enabled, disabled := 0, 0
	for _, b := range cfg.Boards {
		status := "enabled"
		if !b.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		delay := "-"
		if b.ATS != "file" {
			delay = cfg.RateLimit.MinDelayFor(b.ATS).String()
		}
		fmt.Printf("%-22s %-11s %-36s %-8s %s\n", b.Name, b.ATS, truncate(boardSource(b), 36), delay, status)
	}

	fmt.Printf("\nTotal: %d boards (%d enabled, %d disabled)\n", len(cfg.Boards), enabled, disabled)
	return nil
}

func boardSource(b config.BoardConfig) string {
	switch b.ATS {
	case "workday":
		return b.WorkdayURL
	case "file":
		return b.Path
	default:
		return b.BoardToken
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
