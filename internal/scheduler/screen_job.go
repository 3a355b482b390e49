package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/screener/internal/output"
	"github.com/aristath/screener/internal/screener"
)

// ScreenJob runs a full screening pass, stores the results for the HTTP API,
// and writes them to disk.
type ScreenJob struct {
	screener *screener.Screener
	store    *screener.ResultStore
	writer   *output.Writer
	log      zerolog.Logger
}

// NewScreenJob creates the recurring screening job.
func NewScreenJob(s *screener.Screener, store *screener.ResultStore, writer *output.Writer, log zerolog.Logger) *ScreenJob {
	return &ScreenJob{
		screener: s,
		store:    store,
		writer:   writer,
		log:      log.With().Str("job", "screen").Logger(),
	}
}

// Run executes one screening pass.
func (j *ScreenJob) Run(ctx context.Context) error {
	results, stats, err := j.screener.Run(ctx)
	if err != nil {
		return err
	}

	j.store.Set(results, stats)

	if _, err := j.writer.Write(results, stats); err != nil {
		return err
	}
	return nil
}

// Name returns the job name.
func (j *ScreenJob) Name() string {
	return "screen"
}
