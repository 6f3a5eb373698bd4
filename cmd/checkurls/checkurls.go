// Package checkurls implements the checkurls command: batch offer-link
// validation from the command line.
package checkurls

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sammenlign/pricefeed/internal/logger"
	"github.com/sammenlign/pricefeed/internal/urlcheck"
)

// Command returns the checkurls command.
func Command() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "checkurls <url> [url...]",
		Short: "HEAD-check a batch of offer URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, concurrency)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", urlcheck.DefaultConcurrency,
		"maximum number of URLs checked at once")

	return cmd
}

func run(cmd *cobra.Command, urls []string, concurrency int) error {
	checker := urlcheck.NewChecker(nil, concurrency, logger.NewNoOp())

	results := checker.ValidateAll(cmd.Context(), urls)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"URL", "Valid", "Status", "Redirect", "Error"})

	invalid := 0
	for _, r := range results {
		if !r.Valid {
			invalid++
		}
		status := ""
		if r.StatusCode != 0 {
			status = fmt.Sprintf("%d", r.StatusCode)
		}
		t.AppendRow(table.Row{r.URL, r.Valid, status, r.RedirectURL, r.ErrorMessage})
	}
	t.Render()

	if invalid > 0 {
		return fmt.Errorf("%d of %d URLs invalid", invalid, len(results))
	}
	return nil
}
