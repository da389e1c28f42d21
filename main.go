package main

import (
	"context"
	"io"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/Shimmur/syslogsender/connector"
	"github.com/Shimmur/syslogsender/event"
	"github.com/Shimmur/syslogsender/reporter"
	"github.com/Shimmur/syslogsender/timestamp"
	"github.com/alexflint/go-arg"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	director "github.com/relistan/go-director"
	"github.com/relistan/rubberneck"
	log "github.com/sirupsen/logrus"
)

func configureLogging(level string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return &ConfigurationError{Field: "log level", Reason: err.Error()}
	}
	log.SetLevel(parsed)

	return nil
}

// buildOutputs returns the console output plus whichever optional outputs
// are configured.
func buildOutputs(config *Config, labels map[string]string) (ThroughputOutput, error) {
	outputs := MultiOutput{NewConsoleOutput(os.Stdout)}

	if config.LogRelayAddress != "" {
		relay, err := NewUDPRelayOutput(labels, config.LogRelayAddress)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, relay)
	}

	return outputs, nil
}

func main() {
	var args Args
	parser := arg.MustParse(&args)

	var config Config
	err := envconfig.Process("sender", &config)
	if err != nil {
		parser.Fail(err.Error())
	}

	err = config.Validate(&args)
	if err == nil {
		err = configureLogging(config.LogLevel)
	}
	if err != nil {
		parser.Fail(err.Error())
	}

	rubberneck.Print(config.Printable())

	// One seeded source for the life of the process
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	body, err := newBodyGenerator(&config, rnd)
	if err != nil {
		log.Fatal(err.Error())
	}

	runID := uuid.New().String()
	target := net.JoinHostPort(args.Host, args.Port)
	log.Infof("Starting run %s against %s", runID, target)

	conn, err := connector.New(config.Network).Connect(context.Background(), args.Host, args.Port)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer conn.Close()

	stats := reporter.NewStatistics()

	output, err := buildOutputs(&config, map[string]string{"RunID": runID, "Target": target})
	if err != nil {
		log.Fatal(err.Error())
	}

	if config.InsightsEnabled() {
		insights := reporter.NewInsightsReporter(
			config.InsightsURL, config.InsightsInsertKey, config.InsightsAccountID,
			config.InsightsInterval, stats,
		)
		insights.RunID = runID
		insights.Target = target
		insights.Run()
	}

	var writer io.Writer = conn
	if config.MaxRate > 0 {
		limited, err := NewRateLimitedWriter(config.MaxRate, time.Second, target, conn)
		if err != nil {
			log.Fatalf("Unable to set up rate limiting: %s", err)
		}
		defer limited.Stop()
		writer = limited
	}

	looper := director.NewFreeLooper(director.FOREVER, make(chan error))
	sender := NewEventSender(
		looper, timestamp.New(), event.NewComposer(body, args.Length), writer, stats, output,
	)
	sender.ReportInterval = uint64(config.ReportInterval)

	go sender.Run()

	err = looper.Wait()
	if err != nil {
		log.Fatalf("Stopped sending events: %s", err)
	}
}
