package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tatianab/wtii/internal/models"
)

var (
	addName        string
	addDescription string
	removeName     string
)

var partyCmd = &cobra.Command{
	Use:   "party",
	Short: "Show or edit the default party",
	Long: `Without flags, party prints the players that start every encounter.
Use --add and --remove to edit the party file.`,
	RunE: runParty,
}

func init() {
	partyCmd.Flags().StringVar(&addName, "add", "", "add a player with this name")
	partyCmd.Flags().StringVar(&addDescription, "desc", "", "description for the player added with --add")
	partyCmd.Flags().StringVar(&removeName, "remove", "", "remove every player with this name")
}

func runParty(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store := &models.PartyStore{Path: cfg.Party.File}
	seeds, err := store.LoadParty()
	if err != nil {
		return err
	}

	if addName != "" || removeName != "" {
		seeds = editParty(seeds, addName, addDescription, removeName)
		if err := store.SaveParty(seeds); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Party (%s):\n", store.Path)
	if len(seeds) == 0 {
		fmt.Fprintln(out, "  (empty)")
	}
	for _, s := range seeds {
		if s.Description != "" {
			fmt.Fprintf(out, "  %s: %s\n", s.Name, s.Description)
		} else {
			fmt.Fprintf(out, "  %s\n", s.Name)
		}
	}
	return nil
}

// editParty drops every member named remove, then appends add.
func editParty(seeds []models.Seed, add, desc, remove string) []models.Seed {
	out := make([]models.Seed, 0, len(seeds)+1)
	for _, s := range seeds {
		if remove != "" && s.Name == remove {
			continue
		}
		out = append(out, s)
	}
	if add != "" {
		out = append(out, models.Seed{Name: add, Description: desc})
	}
	return out
}
