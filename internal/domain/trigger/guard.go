// internal/domain/trigger/guard.go
package trigger

import (
	"fmt"
	"sync"
	"time"
)

// Decision is the outcome of a single guard evaluation.
type Decision int

const (
	Skip Decision = iota
	Fire
)

func (d Decision) String() string {
	if d == Fire {
		return "fire"
	}
	return "skip"
}

// Date is a calendar day without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d is an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Guard decides once per calendar day whether the daily notification is due.
// The marker only moves forward and is not persisted.
type Guard struct {
	hour     int
	minute   int
	location *time.Location

	mu     sync.Mutex
	marker Date
}

// NewGuard returns a guard firing at hour:minute in loc.
func NewGuard(hour, minute int, loc *time.Location) (*Guard, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("invalid target hour %d", hour)
	}
	if minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid target minute %d", minute)
	}
	if loc == nil {
		return nil, fmt.Errorf("reference location is nil")
	}
	return &Guard{hour: hour, minute: minute, location: loc}, nil
}

// Location returns the reference time zone.
func (g *Guard) Location() *time.Location { return g.location }

// Today returns the calendar day of now in the reference time zone.
func (g *Guard) Today(now time.Time) Date { return DateOf(now, g.location) }

// Evaluate returns Fire only during the target minute of a day that is not yet marked.
// A day earlier than the marker counts as marked, so a clock stepping backwards
// cannot fire again.
func (g *Guard) Evaluate(now time.Time) Decision {
	local := now.In(g.location)
	today := DateOf(local, g.location)

	g.mu.Lock()
	marked := !g.marker.Before(today)
	g.mu.Unlock()
	if marked {
		return Skip
	}
	if local.Hour() != g.hour || local.Minute() != g.minute {
		return Skip
	}
	return Fire
}

// Mark records d as served. Marking an earlier day than the current marker is a no-op.
func (g *Guard) Mark(d Date) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if d.Before(g.marker) {
		return
	}
	g.marker = d
}

// Marker returns the last served day, or the zero Date if none.
func (g *Guard) Marker() Date {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.marker
}

// Next returns the next target instant strictly after now that could still fire,
// skipping today if it is already marked.
func (g *Guard) Next(now time.Time) time.Time {
	local := now.In(g.location)
	next := time.Date(local.Year(), local.Month(), local.Day(), g.hour, g.minute, 0, 0, g.location)
	marker := g.Marker()
	if !next.After(local) || marker == DateOf(next, g.location) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
