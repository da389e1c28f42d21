package main

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/Nitro/sidecar-executor/loghooks"
	"github.com/Shimmur/syslogsender/reporter"
	log "github.com/sirupsen/logrus"
)

// A ThroughputOutput receives a report each time the sender produces one
type ThroughputOutput interface {
	Report(snap reporter.Snapshot)
}

// ConsoleOutput prints one line per report for the operator
type ConsoleOutput struct {
	out io.Writer
}

func NewConsoleOutput(out io.Writer) *ConsoleOutput {
	return &ConsoleOutput{out: out}
}

func (c *ConsoleOutput) Report(snap reporter.Snapshot) {
	fmt.Fprintf(c.out, "%4d %10d events sent, avg: %d events/sec\n",
		snap.Report, snap.EventsSent, snap.Average)
}

// A UDPRelayOutput ships each report as a JSON datagram, e.g. to a local
// syslog relay that forwards it to the log pipeline.
type UDPRelayOutput struct {
	relay *log.Entry
}

func NewUDPRelayOutput(labels map[string]string, address string) (*UDPRelayOutput, error) {
	relay := log.New()

	// UDP because reports are best effort and must never slow the sender
	hook, err := loghooks.NewUDPHook(address)
	if err != nil {
		return nil, fmt.Errorf("unable to relay reports to %s: %w", address, err)
	}

	relay.Hooks.Add(hook)
	relay.SetFormatter(&log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime:  "Timestamp",
			log.FieldKeyLevel: "Level",
			log.FieldKeyMsg:   "Payload",
			log.FieldKeyFunc:  "Func",
		},
	})
	relay.SetOutput(ioutil.Discard)

	fields := make(log.Fields, len(labels))
	for field, val := range labels {
		fields[field] = val
	}

	return &UDPRelayOutput{
		relay: relay.WithFields(fields),
	}, nil
}

func (r *UDPRelayOutput) Report(snap reporter.Snapshot) {
	r.relay.WithFields(log.Fields{
		"Report":         snap.Report,
		"EventsSent":     snap.EventsSent,
		"SecondsElapsed": snap.SecondsElapsed,
		"AverageRate":    snap.Average,
	}).Info("throughput report")
}

// MultiOutput fans a report out to several outputs in order
type MultiOutput []ThroughputOutput

func (m MultiOutput) Report(snap reporter.Snapshot) {
	for _, output := range m {
		output.Report(snap)
	}
}
