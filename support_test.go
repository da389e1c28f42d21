package main

import (
	"bytes"
	"errors"
	"net"
	"os"
	"time"

	"github.com/Shimmur/syslogsender/reporter"
	log "github.com/sirupsen/logrus"
)

const testStamp = "2024-03-05T07:08:09.000042Z"

// LogCapture logs for async testing where we can't get a nice handle on things
func LogCapture(fn func()) string {
	capture := &bytes.Buffer{}
	log.SetOutput(capture)
	fn()
	log.SetOutput(os.Stdout)

	return capture.String()
}

// mockStamps implements TimestampSource. Changes scripts the secondChanged
// flag per call; FailAt makes that call (1-based) return an error.
type mockStamps struct {
	Changes []bool
	FailAt  int

	calls int
}

func (m *mockStamps) Next() (string, bool, error) {
	m.calls++
	if m.FailAt > 0 && m.calls >= m.FailAt {
		return "", false, errors.New("intentional test error")
	}

	var changed bool
	if m.calls <= len(m.Changes) {
		changed = m.Changes[m.calls-1]
	}

	return testStamp, changed, nil
}

// failingWriter refuses every write
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

// mockOutput implements ThroughputOutput
type mockOutput struct {
	Reports []reporter.Snapshot
}

func (m *mockOutput) Report(snap reporter.Snapshot) {
	m.Reports = append(m.Reports, snap)
}

// ListenUDP waits for a single datagram on a socket opened by the caller
func ListenUDP(conn *net.UDPConn) ([]byte, error) {
	buf := make([]byte, 65535)

	err := conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err != nil {
		return nil, err
	}

	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}
