package services

import (
	"context"
	"time"

	"github.com/smarquez/linguaflash/internal/clock"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/logger"
)

// JanitorJob removes active sessions that have been idle past the cutoff.
// It runs on the background worker pool so sweeps never block request
// handling.
type JanitorJob struct {
	db     *db.DB
	clock  clock.Clock
	maxAge time.Duration
}

// NewJanitorJob creates a janitor sweep job. maxAge is how long an
// active session may sit without being finished before it is dropped.
func NewJanitorJob(database *db.DB, clk clock.Clock, maxAge time.Duration) *JanitorJob {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &JanitorJob{db: database, clock: clk, maxAge: maxAge}
}

// Name implements worker.Job.
func (j *JanitorJob) Name() string { return "session-janitor" }

// Run implements worker.Job.
func (j *JanitorJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	cutoff := j.clock.Now().Add(-j.maxAge)
	deleted, err := j.db.DeleteStaleSessions(ctx, cutoff)
	if err != nil {
		log.Error("janitor sweep failed: %v", err)
		return err
	}
	if deleted > 0 {
		log.Info("janitor removed %d stale sessions", deleted)
	}
	return nil
}
