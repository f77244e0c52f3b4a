package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tatianab/wtii/internal/open5e"
)

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search Open5e for monsters by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	client, err := open5e.New(&open5e.Config{
		BaseURL: cfg.Open5e.BaseURL,
		Timeout: cfg.Open5e.Timeout,
		Logger:  logger.Named("open5e"),
	})
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := client.SearchMonsters(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching for %q: %w", query, err)
	}
	if len(results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No creatures match %q\n", query)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCR\tHP\tAC\tDEX\tSOURCE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.ChallengeRating, optional(r.HitPoints), optional(r.ArmorClass), optional(r.Dexterity), r.DocumentTitle)
	}
	return w.Flush()
}

func optional(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
