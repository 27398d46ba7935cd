package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_NextDaily(t *testing.T) {
	job := Job{Daily: true, Hour: 1, Minute: 30}

	before := time.Date(2026, time.March, 10, 0, 15, 0, 0, cycle.Location)
	assert.WithinDuration(t, time.Date(2026, time.March, 10, 1, 30, 0, 0, cycle.Location), job.next(before), 0)

	at := time.Date(2026, time.March, 10, 1, 30, 0, 0, cycle.Location)
	assert.WithinDuration(t, time.Date(2026, time.March, 11, 1, 30, 0, 0, cycle.Location), job.next(at), 0)

	// 20:30 UTC on the 9th is already 02:00 on the 10th in business time.
	utc := time.Date(2026, time.March, 9, 20, 30, 0, 0, time.UTC)
	assert.WithinDuration(t, time.Date(2026, time.March, 11, 1, 30, 0, 0, cycle.Location), job.next(utc), 0)
}

func TestJob_NextInterval(t *testing.T) {
	job := Job{Interval: time.Hour}
	from := time.Date(2026, time.March, 10, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, from.Add(time.Hour), job.next(from))
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	now := time.Date(2026, time.March, 10, 1, 0, 0, 0, cycle.Location)

	var order []string
	var seen time.Time
	s.AddDailyJob("first", 1, 0, func(ctx context.Context, at time.Time) error {
		order = append(order, "first")
		seen = at
		return errors.New("boom")
	})
	s.AddJob("second", time.Hour, func(ctx context.Context, at time.Time) error {
		order = append(order, "second")
		panic("unexpected")
	})
	s.AddJob("third", time.Hour, func(ctx context.Context, at time.Time) error {
		order = append(order, "third")
		return nil
	})

	err := s.RunOnce(context.Background(), now)
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, now, seen)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context, at time.Time) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("interval job did not run on start")
	}
	s.Stop()
}
