package sweeper

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"rezerveo/pkg/logger"
	"rezerveo/pkg/model"
)

// memCompleter applies the sweep predicate to an in-memory booking set.
type memCompleter struct {
	mu       sync.Mutex
	bookings []*model.Booking
	sweeps   int
	err      error
}

func (m *memCompleter) CompleteElapsed(_ context.Context, today, now string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweeps++
	if m.err != nil {
		return 0, m.err
	}

	var completed int64
	for _, b := range m.bookings {
		if b.Status != model.BookingStatusConfirmed {
			continue
		}
		if b.SlotDate < today || (b.SlotDate == today && b.SlotEndTime <= now) {
			b.Status = model.BookingStatusCompleted
			completed++
		}
	}
	return completed, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
}

func booking(status, date, endTime string) *model.Booking {
	return &model.Booking{Status: status, SlotDate: date, SlotEndTime: endTime}
}

func TestSweepSettlesElapsedBookings(t *testing.T) {
	repo := &memCompleter{bookings: []*model.Booking{
		booking(model.BookingStatusConfirmed, "2026-08-27", "18:00"), // yesterday
		booking(model.BookingStatusConfirmed, "2026-08-28", "09:00"), // today, ended
		booking(model.BookingStatusConfirmed, "2026-08-28", "12:00"), // today, ends right now
		booking(model.BookingStatusConfirmed, "2026-08-28", "12:01"), // today, still running
		booking(model.BookingStatusConfirmed, "2026-08-29", "09:00"), // tomorrow
		booking(model.BookingStatusCancelled, "2026-08-27", "09:00"), // settled already
	}}

	s := New(repo, time.Minute, testLogger())
	s.clock = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}

	s.sweep(context.Background())

	wantStatuses := []string{
		model.BookingStatusCompleted,
		model.BookingStatusCompleted,
		model.BookingStatusCompleted,
		model.BookingStatusConfirmed,
		model.BookingStatusConfirmed,
		model.BookingStatusCancelled,
	}
	for i, want := range wantStatuses {
		if got := repo.bookings[i].Status; got != want {
			t.Errorf("booking %d status = %s, want %s", i, got, want)
		}
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	repo := &memCompleter{bookings: []*model.Booking{
		booking(model.BookingStatusConfirmed, "2026-08-27", "18:00"),
	}}

	s := New(repo, time.Minute, testLogger())
	s.clock = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}

	s.sweep(context.Background())
	first := repo.bookings[0].Status

	s.sweep(context.Background())
	s.sweep(context.Background())

	if first != model.BookingStatusCompleted || repo.bookings[0].Status != model.BookingStatusCompleted {
		t.Errorf("booking status = %s, want completed after every sweep", repo.bookings[0].Status)
	}
}

func TestSweepSurvivesStorageFailure(t *testing.T) {
	repo := &memCompleter{err: errors.New("storage down")}
	s := New(repo, time.Minute, testLogger())

	// Must not panic, and the loop keeps going.
	s.sweep(context.Background())
	s.sweep(context.Background())

	if repo.sweeps != 2 {
		t.Errorf("sweeps = %d, want 2", repo.sweeps)
	}
}

func TestStartStop(t *testing.T) {
	repo := &memCompleter{}
	s := New(repo, 5*time.Millisecond, testLogger())

	s.Start()
	time.Sleep(25 * time.Millisecond)
	s.Stop()

	repo.mu.Lock()
	swept := repo.sweeps
	repo.mu.Unlock()
	if swept < 2 {
		t.Errorf("sweeps = %d, want at least the initial plus one tick", swept)
	}

	// Stop twice is safe.
	s.Stop()
}
