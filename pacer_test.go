package main

import (
	"bytes"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func Test_RateLimitedWriter(t *testing.T) {
	Convey("RateLimitedWriter", t, func() {
		output := &bytes.Buffer{}
		writer, err := NewRateLimitedWriter(1, 20*time.Millisecond, "127.0.0.1:8000", output)
		So(err, ShouldBeNil)
		Reset(writer.Stop)

		Convey("passes writes through while under the limit", func() {
			n, err := writer.Write([]byte("first\n"))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 6)
			So(output.String(), ShouldEqual, "first\n")
			So(writer.Throttled(), ShouldEqual, uint64(0))
		})

		Convey("waits for the next interval instead of dropping", func() {
			started := time.Now()
			for _, line := range []string{"one\n", "two\n", "three\n"} {
				_, err := writer.Write([]byte(line))
				So(err, ShouldBeNil)
			}

			So(output.String(), ShouldEqual, "one\ntwo\nthree\n")
			So(writer.Throttled(), ShouldBeGreaterThanOrEqualTo, uint64(2))
			So(time.Since(started), ShouldBeGreaterThanOrEqualTo, 20*time.Millisecond)
		})
	})
}
