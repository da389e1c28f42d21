package timestamp

import (
	"errors"
	"fmt"
	"time"
)

// Layout renders the clock fields down to the microsecond. The trailing Z is
// appended literally even though the fields are in local time, because that
// is what receivers of this traffic have always been given.
const Layout = "2006-01-02T15:04:05.000000"

// Length is the rendered width of a timestamp for four digit years
const Length = len(Layout) + 1

// A Clock supplies the current wall-clock time
type Clock interface {
	Now() (time.Time, error)
}

// ClockFunc lets a plain function act as a Clock
type ClockFunc func() (time.Time, error)

func (f ClockFunc) Now() (time.Time, error) { return f() }

// SystemClock reads the real time
type SystemClock struct{}

func (SystemClock) Now() (time.Time, error) { return time.Now(), nil }

// A ClockError is returned when the time could not be read or converted to
// calendar time.
type ClockError struct {
	Err error
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("unable to generate timestamp: %s", e.Err)
}

func (e *ClockError) Unwrap() error { return e.Err }

// A Generator renders timestamps and keeps track of whether the second has
// rolled over since the previous call. It is not safe for concurrent use.
type Generator struct {
	clock    Clock
	location *time.Location

	lastSecond int64
	seen       bool
}

// New returns a Generator on the system clock in the local time zone
func New() *Generator {
	return NewWithClock(SystemClock{}, time.Local)
}

// NewWithClock returns a Generator reading from the given Clock and rendering
// in the given location.
func NewWithClock(clock Clock, location *time.Location) *Generator {
	return &Generator{
		clock:    clock,
		location: location,
	}
}

// Next returns the current timestamp and whether the integer second differs
// from the one seen on the previous call. The very first call never reports
// a change.
func (g *Generator) Next() (string, bool, error) {
	now, err := g.clock.Now()
	if err != nil {
		return "", false, &ClockError{Err: err}
	}

	if g.location == nil {
		return "", false, &ClockError{Err: errors.New("no time zone available for calendar conversion")}
	}

	second := now.Unix()
	changed := g.seen && second != g.lastSecond

	g.lastSecond = second
	g.seen = true

	return now.In(g.location).Format(Layout) + "Z", changed, nil
}
