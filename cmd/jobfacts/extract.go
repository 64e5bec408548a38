package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfacts/internal/compensation"
	"github.com/amishk599/jobfacts/internal/keywords"
	"github.com/amishk599/jobfacts/internal/location"
	"github.com/amishk599/jobfacts/internal/normalize"
)

var (
	extractLocation string
	extractExplain  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract facts from one description read on stdin",
	Long: "Reads a single posting description on stdin and prints the extracted salary,\n" +
		"canonical location (from --location) and keywords.",
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractLocation, "location", "l", "", "raw location string to canonicalize")
	extractCmd.Flags().BoolVar(&extractExplain, "explain", false, "also list every compensation candidate found")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read stdin: %v\n", err)
		os.Exit(1)
	}
	writeFacts(cmd.OutOrStdout(), string(data), extractLocation, extractExplain)
	return nil
}

// writeFacts prints the facts of desc. Candidates are listed against the
// plain text Extract matches on, so their offsets and rule names agree with
// the salary line.
func writeFacts(w io.Writer, desc, rawLocation string, explain bool) {
	fmt.Fprintf(w, "%-10s %s\n", "salary:", orNone(compensation.Extract(desc)))
	fmt.Fprintf(w, "%-10s %s\n", "location:", orNone(location.Canonicalize(rawLocation)))
	fmt.Fprintf(w, "%-10s %s\n", "keywords:", orNone(strings.Join(keywords.Scan(desc), ", ")))

	if !explain {
		return
	}
	fmt.Fprintln(w)
	for _, c := range compensation.Candidates(normalize.PlainText(desc)) {
		fmt.Fprintf(w, "  @%-5d %-18s %-14s %q\n", c.Start, c.Rule.Name(), c.Class, c.Match)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
