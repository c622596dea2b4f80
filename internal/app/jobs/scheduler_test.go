package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompleter struct{ calls int }

func (c *countingCompleter) CompleteDueCourses(context.Context) (int, error) {
	c.calls++
	return 0, nil
}

func TestNewSchedulerRegistersJobs(t *testing.T) {
	worker := NewOutboxWorker(newFakeOutboxStore(), &fakeSender{ok: true}, OutboxWorkerConfig{}, zerolog.Nop())

	s, err := NewScheduler(SchedulerConfig{
		CompletionSpec: "@every 1m",
		OutboxInterval: 30 * time.Second,
	}, &countingCompleter{}, worker, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(SchedulerConfig{CompletionSpec: "every minute"}, &countingCompleter{}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestWrappedJobRuns(t *testing.T) {
	completer := &countingCompleter{}
	s, err := NewScheduler(SchedulerConfig{CompletionSpec: "@every 1h"}, completer, nil, zerolog.Nop())
	require.NoError(t, err)

	s.wrap("course-completion", func(ctx context.Context) error {
		_, err := completer.CompleteDueCourses(ctx)
		return err
	})()
	assert.Equal(t, 1, completer.calls)
}
