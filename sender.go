package main

import (
	"fmt"
	"io"

	"github.com/Shimmur/syslogsender/reporter"
	director "github.com/relistan/go-director"
	log "github.com/sirupsen/logrus"
)

// A TimestampSource hands out timestamps and flags second boundaries
type TimestampSource interface {
	Next() (string, bool, error)
}

// An EventComposer builds a complete event around a timestamp
type EventComposer interface {
	Compose(stamp string) ([]byte, error)
}

// A WriteError means the connection refused an event. It ends the run.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to send event: %s", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// An EventSender writes events to the connection as fast as it will take
// them. It runs until something fails; nothing is retried.
type EventSender struct {
	ReportInterval uint64

	looper   director.Looper
	clock    TimestampSource
	composer EventComposer
	conn     io.Writer
	stats    *reporter.Statistics
	output   ThroughputOutput
}

// NewEventSender wires up an EventSender. The looper controls how many events
// are sent; in production it runs forever.
func NewEventSender(looper director.Looper, clock TimestampSource, composer EventComposer,
	conn io.Writer, stats *reporter.Statistics, output ThroughputOutput) *EventSender {

	return &EventSender{
		ReportInterval: 1,
		looper:         looper,
		clock:          clock,
		composer:       composer,
		conn:           conn,
		stats:          stats,
		output:         output,
	}
}

// Run sends events until the looper finishes or an error stops it. The error
// is delivered through the looper's Wait().
func (s *EventSender) Run() {
	s.looper.Loop(func() error {
		stamp, secondChanged, err := s.clock.Next()
		if err != nil {
			log.Errorf("It was not possible to generate a new timestamp: %s", err)
			return err
		}

		if secondChanged {
			s.stats.SecondElapsed()
		}

		msg, err := s.composer.Compose(stamp)
		if err != nil {
			log.Errorf("Unable to compose event: %s", err)
			return err
		}

		_, err = s.conn.Write(msg)
		if err != nil {
			log.Errorf("Lost the connection to the target: %s", err)
			return &WriteError{Err: err}
		}

		s.stats.EventSent()

		if secondChanged && s.stats.ReportDue(s.ReportInterval) {
			s.output.Report(s.stats.NextReport())
		}

		return nil
	})
}
