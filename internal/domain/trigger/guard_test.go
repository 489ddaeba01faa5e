package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var central = time.FixedZone("UTC-6", -6*60*60)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()
	g, err := NewGuard(8, 0, central)
	require.NoError(t, err)
	return g
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, central)
}

func TestNewGuardRejectsInvalidTarget(t *testing.T) {
	_, err := NewGuard(24, 0, central)
	assert.Error(t, err)
	_, err = NewGuard(8, 60, central)
	assert.Error(t, err)
	_, err = NewGuard(8, 0, nil)
	assert.Error(t, err)
}

func TestGuardScenario(t *testing.T) {
	g := newTestGuard(t)

	assert.Equal(t, Fire, g.Evaluate(at(2024, time.March, 1, 8, 0)))

	g.Mark(Date{2024, time.March, 1})
	assert.Equal(t, Skip, g.Evaluate(at(2024, time.March, 1, 8, 0)))
	assert.Equal(t, Skip, g.Evaluate(at(2024, time.March, 1, 8, 1)))
	assert.Equal(t, Fire, g.Evaluate(at(2024, time.March, 2, 8, 0)))
}

func TestGuardSkipsOffTargetMinutesRegardlessOfMarker(t *testing.T) {
	g := newTestGuard(t)
	day := at(2024, time.March, 1, 0, 0)
	for m := 0; m < 24*60; m++ {
		now := day.Add(time.Duration(m) * time.Minute)
		if now.Hour() == 8 && now.Minute() == 0 {
			continue
		}
		require.Equal(t, Skip, g.Evaluate(now), "at %s", now)
	}
}

func TestGuardUsesReferenceZone(t *testing.T) {
	g := newTestGuard(t)
	// 14:00 UTC is 08:00 in UTC-6.
	assert.Equal(t, Fire, g.Evaluate(time.Date(2024, time.March, 1, 14, 0, 30, 0, time.UTC)))
	assert.Equal(t, Skip, g.Evaluate(time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, Date{2024, time.March, 1}, g.Today(time.Date(2024, time.March, 2, 5, 59, 0, 0, time.UTC)))
}

func TestGuardExactlyOneFirePerDay(t *testing.T) {
	g := newTestGuard(t)
	start := at(2024, time.March, 1, 7, 30)
	fires := 0
	for i := 0; i < 61; i++ {
		now := start.Add(time.Duration(i) * time.Minute)
		if g.Evaluate(now) == Fire {
			fires++
			g.Mark(g.Today(now))
		}
	}
	assert.Equal(t, 1, fires)
}

func TestGuardMarkIsMonotonicAndIdempotent(t *testing.T) {
	g := newTestGuard(t)
	d := Date{2024, time.March, 2}

	g.Mark(d)
	g.Mark(d)
	assert.Equal(t, d, g.Marker())

	g.Mark(Date{2024, time.March, 1})
	assert.Equal(t, d, g.Marker())
	assert.Equal(t, Skip, g.Evaluate(at(2024, time.March, 2, 8, 0)))
}

func TestGuardWithoutMarkStillFiresAgain(t *testing.T) {
	g := newTestGuard(t)
	now := at(2024, time.March, 1, 8, 0)
	assert.Equal(t, Fire, g.Evaluate(now))
	assert.Equal(t, Fire, g.Evaluate(now.Add(30*time.Second)))
}

func TestDateBefore(t *testing.T) {
	assert.True(t, Date{}.Before(Date{2024, time.January, 1}))
	assert.True(t, Date{2023, time.December, 31}.Before(Date{2024, time.January, 1}))
	assert.True(t, Date{2024, time.January, 1}.Before(Date{2024, time.February, 1}))
	assert.False(t, Date{2024, time.January, 2}.Before(Date{2024, time.January, 1}))
	assert.False(t, Date{2024, time.January, 1}.Before(Date{2024, time.January, 1}))
	assert.Equal(t, "2024-03-01", Date{2024, time.March, 1}.String())
}

func TestGuardNext(t *testing.T) {
	g := newTestGuard(t)

	assert.Equal(t, at(2024, time.March, 1, 8, 0), g.Next(at(2024, time.March, 1, 7, 15)))
	assert.Equal(t, at(2024, time.March, 2, 8, 0), g.Next(at(2024, time.March, 1, 9, 0)))

	g.Mark(Date{2024, time.March, 1})
	assert.Equal(t, at(2024, time.March, 2, 8, 0), g.Next(at(2024, time.March, 1, 7, 15)))
}

func TestGuardSkipsDaysBeforeMarker(t *testing.T) {
	g := newTestGuard(t)
	g.Mark(Date{2024, time.March, 5})

	// Wall clock stepped back several days.
	assert.Equal(t, Skip, g.Evaluate(at(2024, time.March, 1, 8, 0)))
	assert.Equal(t, Skip, g.Evaluate(at(2024, time.March, 1, 8, 0).Add(20*time.Second)))
	assert.Equal(t, Fire, g.Evaluate(at(2024, time.March, 6, 8, 0)))
}
