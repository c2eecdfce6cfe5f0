package kafka

import (
	"context"
)

// StatsRecorder receives writer counters. Values are deltas since the
// previous report.
type StatsRecorder interface {
	RecordWriterStats(writes, messages, errors int64)
}

// StatsJob copies the publisher's writer statistics into a recorder each
// time it runs. It is meant to be driven by the scheduler.
type StatsJob struct {
	publisher *Publisher
	recorder  StatsRecorder
}

// NewStatsJob returns a job reporting p's stats to r.
func NewStatsJob(p *Publisher, r StatsRecorder) *StatsJob {
	return &StatsJob{publisher: p, recorder: r}
}

// Run implements scheduler.Job.
func (j *StatsJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := j.publisher.Stats()
	j.recorder.RecordWriterStats(s.Writes, s.Messages, s.Errors)
	return nil
}
