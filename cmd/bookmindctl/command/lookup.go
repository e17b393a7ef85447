package command

import (
	"fmt"
	"strings"

	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [title]",
	Short: "Look up book metadata by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		books := services.NewGoogleBooksService(cfg.GoogleBooksURL, cfg.GoogleBooksAPIKey, cfg.BookLookupPerMinute)
		info, ok := books.Lookup(cmd.Context(), strings.Join(args, " "))
		if !ok {
			fmt.Fprintln(out, "Book not found.")
			return nil
		}

		fmt.Fprintf(out, "Title: %s\n", info.Title)
		fmt.Fprintf(out, "Author: %s\n", info.Author)
		if info.CoverURL != "" {
			fmt.Fprintf(out, "Cover: %s\n", info.CoverURL)
		}
		fmt.Fprintf(out, "\n%s\n", info.Description)
		return nil
	},
}
