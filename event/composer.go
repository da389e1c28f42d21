package event

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Shimmur/syslogsender/timestamp"
)

const (
	// Priority is facility user, severity notice
	Priority = "<13>"

	// Host and tag are fixed for every event
	HostAndTag = " localhost.localdomain my.app: "

	// HeaderLength is the size of everything before the body
	HeaderLength = len(Priority) + timestamp.Length + len(HostAndTag)

	// MaxMessageLength is the largest event we will put on the wire
	MaxMessageLength = 1024

	// MinEventLength leaves room for one body character and the newline
	MinEventLength = HeaderLength + 2
)

var (
	ErrMessageTooLong  = errors.New("event exceeds maximum message length")
	ErrMessageTooShort = errors.New("event length leaves no room for a body")
)

// A Composer assembles complete syslog events. The returned slice is backed
// by the Composer's own buffer and is only valid until the next call.
type Composer struct {
	body   BodyGenerator
	length int
	buf    bytes.Buffer
}

// NewComposer returns a Composer that produces events of exactly length bytes,
// or lets the body generator pick when length is 0.
func NewComposer(body BodyGenerator, length int) *Composer {
	c := &Composer{
		body:   body,
		length: length,
	}
	c.buf.Grow(MaxMessageLength + 1)

	return c
}

// Compose builds one event around the given timestamp
func (c *Composer) Compose(stamp string) ([]byte, error) {
	c.buf.Reset()

	c.buf.WriteString(Priority)
	c.buf.WriteString(stamp)
	c.buf.WriteString(HostAndTag)

	var bodyLength int
	if c.length > 0 {
		bodyLength = c.length - c.buf.Len() - 1
		if bodyLength < 1 {
			return nil, fmt.Errorf("%w: configured length %d", ErrMessageTooShort, c.length)
		}
	}

	if c.length > MaxMessageLength {
		return nil, fmt.Errorf("%w: configured length %d", ErrMessageTooLong, c.length)
	}

	c.body.Generate(&c.buf, bodyLength)

	if c.buf.Len() > MaxMessageLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLong, c.buf.Len())
	}

	return c.buf.Bytes(), nil
}
