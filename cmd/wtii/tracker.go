package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tatianab/wtii/internal/models"
	"github.com/tatianab/wtii/internal/narrator"
	"github.com/tatianab/wtii/internal/open5e"
	"github.com/tatianab/wtii/internal/roll"
	"github.com/tatianab/wtii/internal/roster"
	"github.com/tatianab/wtii/internal/search"
	"github.com/tatianab/wtii/internal/tui"
)

func runTracker(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	roller := roll.NewLoggedRoller(dice.DefaultRoller, logger.Named("dice"))
	store := &models.PartyStore{Path: cfg.Party.File}

	r, err := roster.New(store, roller)
	if err != nil {
		// an unreadable party file still leaves a usable, empty roster
		logger.Warn("loading party", zap.String("file", store.Path), zap.Error(err))
	}

	client, err := open5e.New(&open5e.Config{
		BaseURL: cfg.Open5e.BaseURL,
		Timeout: cfg.Open5e.Timeout,
		Logger:  logger.Named("open5e"),
	})
	if err != nil {
		return err
	}

	opts := tui.Options{
		Context: ctx,
		Roster:  r,
		Search:  search.NewDispatcher(client, logger.Named("search")),
		Party:   store,
		Roller:  roller,
		Keys:    cfg.Keys,
		Logger:  logger.Named("tui"),
	}

	if cfg.Narration() {
		n, err := narrator.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger.Named("narrator"))
		if err != nil {
			logger.Warn("narration disabled", zap.Error(err))
		} else {
			defer n.Close()
			opts.Narrator = n
		}
	}

	logger.Info("starting tracker",
		zap.String("party", store.Path),
		zap.Int("players", r.Len()),
		zap.Bool("narration", opts.Narrator != nil),
	)
	return tui.Run(opts)
}
