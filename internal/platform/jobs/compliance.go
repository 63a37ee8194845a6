// Package jobs schedules recurring background work, currently the nightly
// whole-week compliance check.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/carehome/carehome/internal/domain/compliance"
)

// ComplianceRunner runs the compliance checker on a cron schedule. Results
// go to the operational log; a violation is an expected outcome, not a job
// failure.
type ComplianceRunner struct {
	checker *compliance.Checker
	cron    *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
}

func NewComplianceRunner(checker *compliance.Checker, log zerolog.Logger) *ComplianceRunner {
	return &ComplianceRunner{
		checker: checker,
		cron:    cron.New(),
		log:     log.With().Str("component", "jobs").Logger(),
		timeout: 30 * time.Second,
	}
}

// Start registers the job under the given cron spec and starts the
// scheduler. The returned stop function waits for a running check to
// finish.
func (r *ComplianceRunner) Start(spec string) (stop func(), err error) {
	if _, err := r.cron.AddFunc(spec, r.runOnce); err != nil {
		return nil, err
	}
	r.cron.Start()
	r.log.Info().Str("cron", spec).Msg("compliance job scheduled")
	return func() { <-r.cron.Stop().Done() }, nil
}

func (r *ComplianceRunner) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err := r.checker.Check(ctx)
	if err == nil {
		r.log.Info().Msg("nightly compliance check passed")
		return
	}

	var violation *compliance.Violation
	if errors.As(err, &violation) {
		r.log.Warn().
			Str("day", violation.Day.String()).
			Str("detail", violation.Detail).
			Msg("nightly compliance check found a violation")
		return
	}
	r.log.Error().Err(err).Msg("nightly compliance check failed")
}
