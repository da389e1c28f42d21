package reporter

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	director "github.com/relistan/go-director"
	log "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewInsightsReporter(t *testing.T) {
	Convey("NewInsightsReporter() returns a properly configured struct", t, func() {
		url := "http://example.com"
		key := "mykey"
		account := "myaccount"
		reporter := NewInsightsReporter(url, key, account, time.Minute, NewStatistics())

		So(reporter.BaseURL, ShouldEqual, url)
		So(reporter.InsertKey, ShouldEqual, key)
		So(reporter.AccountID, ShouldEqual, account)
		So(reporter.ReportLooper, ShouldNotBeNil)
		So(len(reporter.hostname), ShouldBeGreaterThan, 0)
		So(reporter.client, ShouldNotBeNil)
		So(reporter.stats, ShouldNotBeNil)
	})
}

func Test_Run(t *testing.T) {
	Convey("Run()", t, func() {
		Reset(func() {
			httpmock.DeactivateAndReset()
			log.SetOutput(ioutil.Discard)
		})

		capture := &bytes.Buffer{}
		log.SetOutput(capture)
		log.SetLevel(log.DebugLevel)

		url := "http://example.com"
		key := "mykey"
		account := "myaccount"

		stats := NewStatistics()
		stats.SecondElapsed()
		stats.SecondElapsed()
		for i := 0; i < 20; i++ {
			stats.EventSent()
		}

		reporter := NewInsightsReporter(url, key, account, time.Minute, stats)
		reporter.RunID = "some-run"
		reporter.Target = "127.0.0.1:8000"
		httpmock.ActivateNonDefault(reporter.client)

		reporter.ReportLooper = director.NewFreeLooper(1, make(chan error))

		fullURL := url + "/" + account + "/events"

		hasHeader := false
		var payload map[string]interface{}

		httpmock.RegisterResponder("POST", fullURL, func(req *http.Request) (*http.Response, error) {
			if req.Header["X-Insert-Key"][0] == key {
				hasHeader = true
			}
			_ = json.NewDecoder(req.Body).Decode(&payload)
			return httpmock.NewStringResponse(200, `OK`), nil
		})

		Convey("Sends the event", func() {
			reporter.Run()
			err := reporter.ReportLooper.Wait()
			So(err, ShouldBeNil)

			info := httpmock.GetCallCountInfo()
			So(info["POST "+fullURL], ShouldEqual, 1)
			So(hasHeader, ShouldBeTrue)

			So(payload["eventType"], ShouldEqual, "SyslogSenderThroughput")
			So(payload["EventsSent"], ShouldEqual, float64(20))
			So(payload["SecondsElapsed"], ShouldEqual, float64(2))
			So(payload["AverageRate"], ShouldEqual, float64(10))
			So(payload["RunID"], ShouldEqual, "some-run")
			So(payload["Target"], ShouldEqual, "127.0.0.1:8000")
		})

		Convey("Remembers what it already sent", func() {
			reporter.Run()
			err := reporter.ReportLooper.Wait()
			So(err, ShouldBeNil)
			So(reporter.lastSent, ShouldEqual, uint64(20))
		})

		Convey("Doesn't send an event if nothing new was sent", func() {
			reporter.lastSent = 20
			reporter.Run()
			err := reporter.ReportLooper.Wait()
			So(err, ShouldBeNil)

			info := httpmock.GetCallCountInfo()
			So(info["POST "+fullURL], ShouldEqual, 0)
		})

		Convey("Handles errors when New Relic is broken", func() {
			httpmock.RegisterResponder("POST", fullURL, func(req *http.Request) (*http.Response, error) {
				return httpmock.NewStringResponse(503, `Uh-oh`), nil
			})

			reporter.Run()
			err := reporter.ReportLooper.Wait()
			So(err, ShouldBeNil)

			So(capture.String(), ShouldContainSubstring, "Uh-oh")
			So(reporter.lastSent, ShouldEqual, uint64(0))

			info := httpmock.GetCallCountInfo()
			So(info["POST "+fullURL], ShouldEqual, 1)
		})
	})
}
