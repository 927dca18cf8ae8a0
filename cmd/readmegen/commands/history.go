package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/config"
	rgerrors "git.home.luguber.info/inful/readmegen/internal/errors"
	"git.home.luguber.info/inful/readmegen/internal/history"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit     int    `short:"n" default:"20" help:"Number of generations to show"`
	RunID     string `name:"run" help:"Show the generations recorded for one run id"`
	Summaries bool   `help:"Show per-artifact summaries instead of individual generations"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyLogging(cfg.Logging, root.Verbose)

	if cfg.History.Path == "" {
		return rgerrors.ConfigRequired("history.path")
	}
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close history store", logfields.Error(err))
		}
	}()

	if h.Summaries {
		return printSummaries(store)
	}

	var entries []history.Entry
	if h.RunID != "" {
		entries, err = store.ByRun(context.Background(), h.RunID)
	} else {
		entries, err = store.Recent(context.Background(), h.Limit)
	}
	if err != nil {
		return err
	}
	printEntries(entries)
	return nil
}

func printEntries(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Println("No generations recorded")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %-8s  %-14s  %-7s  %6d bytes  run=%s\n",
			e.CreatedAt.Format(time.RFC3339), e.Format, e.Filename, e.Trigger, e.Bytes, e.RunID)
	}
}

func printSummaries(store history.Store) error {
	sums, err := store.Summaries(context.Background())
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		fmt.Println("No generations recorded")
		return nil
	}
	for _, s := range sums {
		fmt.Printf("%-14s  %-8s  generations=%-4d  last=%s  trigger=%s  bytes=%d\n",
			s.Filename, s.Format, s.Generations, s.LastAt.Format(time.RFC3339), s.LastTrigger, s.LastBytes)
	}
	return nil
}
