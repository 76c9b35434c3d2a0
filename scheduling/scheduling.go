// Package scheduling provides the delayed task facility used for firing
// post-match grace-period transitions.
package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pitchpong/pitchpong-server/logging"
	"go.uber.org/zap"
)

// Entry is a scheduled grace-period transition. It carries the court id and the
// reset epoch captured at schedule time so the handler can re-validate current
// state before mutating. There is no cancellation path: a superseded entry is a
// safe no-op when it fires.
type Entry struct {
	// FireAt is the time the entry becomes due.
	FireAt time.Time
	// CourtID is the id of the court to transition.
	CourtID int
	// Epoch is the court's reset epoch at schedule time.
	Epoch uint64
}

// Handler handles due entries.
type Handler func(entry Entry)

// Scheduler fires entries from a single goroutine once they become due. Create
// it with NewScheduler and start it with Scheduler.Run.
type Scheduler struct {
	handler Handler
	// add receives newly scheduled entries.
	add chan Entry
	// m locks entries.
	m sync.Mutex
	// entries are the pending entries, ordered by Entry.FireAt.
	entries []Entry
}

// NewScheduler creates a new Scheduler that passes due entries to the given
// Handler. Run it with Scheduler.Run.
func NewScheduler(handler Handler) *Scheduler {
	return &Scheduler{
		handler: handler,
		add:     make(chan Entry, 16),
	}
}

// ScheduleIn schedules an entry for the given court id and epoch that becomes
// due after the given duration.
func (s *Scheduler) ScheduleIn(d time.Duration, courtID int, epoch uint64) {
	s.add <- Entry{
		FireAt:  time.Now().Add(d),
		CourtID: courtID,
		Epoch:   epoch,
	}
}

// Run starts the Scheduler. It blocks so you need to start a goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	timerActive := false
	for {
		// Arm the timer for the next pending entry.
		if next, ok := s.peek(); ok && !timerActive {
			timer.Reset(time.Until(next.FireAt))
			timerActive = true
		}
		select {
		case <-ctx.Done():
			if timerActive && !timer.Stop() {
				<-timer.C
			}
			return
		case entry := <-s.add:
			s.insert(entry)
			logging.SchedulingLogger.Debug("entry scheduled",
				zap.Int("court_id", entry.CourtID),
				zap.Uint64("epoch", entry.Epoch),
				zap.Time("fire_at", entry.FireAt))
			// Rearm so an earlier entry is not shadowed by the current timer.
			if timerActive && !timer.Stop() {
				<-timer.C
			}
			timerActive = false
		case <-timer.C:
			timerActive = false
			for _, due := range s.popDue(time.Now()) {
				s.handler(due)
			}
		}
	}
}

func (s *Scheduler) insert(entry Entry) {
	s.m.Lock()
	defer s.m.Unlock()
	s.entries = append(s.entries, entry)
	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].FireAt.Before(s.entries[j].FireAt)
	})
}

func (s *Scheduler) peek() (Entry, bool) {
	s.m.Lock()
	defer s.m.Unlock()
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[0], true
}

// popDue removes and returns all entries due at the given time.
func (s *Scheduler) popDue(now time.Time) []Entry {
	s.m.Lock()
	defer s.m.Unlock()
	due := make([]Entry, 0, 1)
	for len(s.entries) > 0 && !s.entries[0].FireAt.After(now) {
		due = append(due, s.entries[0])
		s.entries = s.entries[1:]
	}
	return due
}
