package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	loghttp "github.com/motemen/go-loghttp"
	director "github.com/relistan/go-director"
	log "github.com/sirupsen/logrus"
)

// An InsightsReporter samples the sender's Statistics and ships them to New
// Relic Insights as an event on each tick of its looper. It runs alongside
// the sender and never touches the connection.
type InsightsReporter struct {
	client    *http.Client
	BaseURL   string
	InsertKey string
	AccountID string
	RunID     string
	Target    string

	ReportLooper director.Looper
	stats        *Statistics
	lastSent     uint64
	hostname     string
}

// NewInsightsReporter returns a properly configured reporter
func NewInsightsReporter(url, insertKey, accountID string, interval time.Duration,
	stats *Statistics) *InsightsReporter {

	client := cleanhttp.DefaultClient()
	client.Transport = &loghttp.Transport{
		LogRequest: func(req *http.Request) {
			log.Debugf("%s %s", req.Method, req.URL)
		},
		LogResponse: func(resp *http.Response) {
			log.Debugf("%d %s", resp.StatusCode, resp.Request.URL)
		},
		Transport: client.Transport,
	}

	hostname, err := os.Hostname()
	if err != nil {
		log.Warnf("Unable to determine hostname: %s", err)
		hostname = "unknown"
	}

	return &InsightsReporter{
		client:       client,
		BaseURL:      url,
		InsertKey:    insertKey,
		AccountID:    accountID,
		ReportLooper: director.NewTimedLooper(director.FOREVER, interval, make(chan error)),
		stats:        stats,
		hostname:     hostname,
	}
}

// Run starts up a background goroutine that reports to New Relic on every
// tick of the ReportLooper
func (r *InsightsReporter) Run() {
	log.Infof("Starting up New Relic reporter for account '%s'", r.AccountID)

	url := fmt.Sprintf("%s/%s/events", r.BaseURL, r.AccountID)

	go r.ReportLooper.Loop(func() error {
		snap := r.stats.Snapshot()

		if snap.EventsSent > r.lastSent {
			err := r.sendEvent(url, snap)
			// We _don't_ want to stop sending on error
			if err != nil {
				log.Errorf("Error reporting to New Relic: %s", err)
				return nil
			}
			r.lastSent = snap.EventsSent
		}

		return nil
	})
}

// sendEvent serializes JSON and sends it to New Relic Insights
func (r *InsightsReporter) sendEvent(url string, snap Snapshot) error {
	data, err := json.Marshal(struct {
		Time           string
		Hostname       string
		RunID          string
		Target         string
		EventsSent     uint64
		SecondsElapsed uint64
		AverageRate    uint64
		EventType      string `json:"eventType"`
	}{
		Time:           time.Now().UTC().Format(time.RFC3339),
		Hostname:       r.hostname,
		RunID:          r.RunID,
		Target:         r.Target,
		EventsSent:     snap.EventsSent,
		SecondsElapsed: snap.SecondsElapsed,
		AverageRate:    snap.Average,
		EventType:      "SyslogSenderThroughput",
	})
	if err != nil {
		return fmt.Errorf("unable to encode JSON event: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("unable to create http request: %w", err)
	}
	req.Header.Add("X-Insert-Key", r.InsertKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed making HTTP request to New Relic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := ioutil.ReadAll(resp.Body)
		return fmt.Errorf("bad response from New Relic: %s", string(body))
	}

	return nil
}
