package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/neoqrc/internal/ratelimit"
)

type countingSweeper struct{ calls int }

func (s *countingSweeper) Sweep() int {
	s.calls++
	return 2
}

func TestScheduler_StartRegistersSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler(zap.NewNop(), "", ratelimit.NewMemory())
	require.NoError(t, s.Start(ctx))

	assert.Equal(t, 1, s.Jobs())
	entry := s.c.Entries()[0]
	assert.WithinDuration(t, time.Now(), entry.Next, 5*time.Minute+time.Second)
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop(), "every now and then", &countingSweeper{})

	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_Sweep(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sweeper := &countingSweeper{}
	s := NewScheduler(zap.New(core), "", sweeper)

	s.sweep()

	assert.Equal(t, 1, sweeper.calls)
	entries := logs.FilterMessage("Expired rate limit windows removed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["count"])
}
