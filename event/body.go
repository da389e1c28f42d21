package event

import (
	"bytes"
	"math/rand"
)

const (
	// MinFillerLength and MaxFillerLength bound the total event length the
	// filler strategy picks when no length was configured.
	MinFillerLength = 100
	MaxFillerLength = 225

	// MaxBodyLength is the largest body, newline excluded, that still fits
	// in a message alongside the header.
	MaxBodyLength = MaxMessageLength - HeaderLength - 1
)

// A BodyGenerator writes the variable part of an event followed by a
// newline. A bodyLength of 0 lets the generator decide how long the body is.
type BodyGenerator interface {
	Generate(buf *bytes.Buffer, bodyLength int)
}

// TemplateBody strings together randomly chosen templates until the body is
// long enough, truncating the last one.
type TemplateBody struct {
	Templates []string

	rnd *rand.Rand
}

// NewTemplateBody returns a TemplateBody drawing from the given templates. The
// random source is shared with the caller and must not be used concurrently.
func NewTemplateBody(rnd *rand.Rand, templates []string) *TemplateBody {
	if len(templates) < 1 {
		templates = DefaultTemplates()
	}

	return &TemplateBody{
		Templates: templates,
		rnd:       rnd,
	}
}

func (b *TemplateBody) Generate(buf *bytes.Buffer, bodyLength int) {
	if bodyLength > MaxBodyLength {
		bodyLength = MaxBodyLength
	}

	var written int
	for {
		template := b.Templates[b.rnd.Intn(len(b.Templates))]

		// Unspecified length means exactly one whole template
		if bodyLength <= 0 {
			bodyLength = len(template)
			if bodyLength > MaxBodyLength {
				bodyLength = MaxBodyLength
			}
		}

		if written+len(template) >= bodyLength {
			buf.WriteString(template[:bodyLength-written])
			break
		}

		buf.WriteString(template)
		written += len(template)
	}

	buf.WriteByte('\n')
}

// FillerBody repeats one random uppercase letter for the whole body
type FillerBody struct {
	rnd *rand.Rand
}

// NewFillerBody returns a FillerBody on the shared random source
func NewFillerBody(rnd *rand.Rand) *FillerBody {
	return &FillerBody{rnd: rnd}
}

func (b *FillerBody) Generate(buf *bytes.Buffer, bodyLength int) {
	if bodyLength <= 0 {
		total := MinFillerLength + b.rnd.Intn(MaxFillerLength-MinFillerLength+1)
		bodyLength = total - HeaderLength - 1
	}

	if bodyLength > MaxBodyLength {
		bodyLength = MaxBodyLength
	}

	letter := byte('A' + b.rnd.Intn(26))
	buf.Write(bytes.Repeat([]byte{letter}, bodyLength))
	buf.WriteByte('\n')
}
