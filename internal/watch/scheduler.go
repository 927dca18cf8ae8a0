package watch

import (
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	rgerrors "git.home.luguber.info/inful/readmegen/internal/errors"
)

// startScheduler arms the optional interval-based refresh. Returns nil when
// watch.interval is not configured. The scheduled task goes through the same
// debounced trigger as filesystem events, so a tick during a burst of edits
// does not cause a duplicate run.
func (d *Daemon) startScheduler(trigger func()) (gocron.Scheduler, error) {
	if d.interval <= 0 {
		return nil, nil
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, rgerrors.WatchSetupError(fmt.Errorf("create scheduler: %w", err))
	}
	_, err = s.NewJob(
		gocron.DurationJob(d.interval),
		gocron.NewTask(trigger),
		gocron.WithName("interval-refresh"),
	)
	if err != nil {
		return nil, rgerrors.WatchSetupError(fmt.Errorf("schedule refresh: %w", err))
	}

	s.Start()
	slog.Info("Periodic refresh scheduled", slog.Duration("interval", d.interval))
	return s, nil
}
