package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Shimmur/syslogsender/event"
)

const (
	StrategyTemplate = "template"
	StrategyFiller   = "filler"
)

// Args are taken from the command line
type Args struct {
	Host   string `arg:"positional" default:"127.0.0.1" help:"host to send events to"`
	Port   string `arg:"positional" default:"8000" help:"port or service name to send events to"`
	Length int    `arg:"-l,--length" help:"length (in chars) of the events to send [64-1024]"`
}

func (Args) Description() string {
	return "syslogsender sends syslog events to a receiver as fast as the connection allows."
}

// Config is taken from the environment, prefixed with SENDER_
type Config struct {
	Strategy          string        `envconfig:"STRATEGY" default:"template"`
	ReportInterval    int           `envconfig:"REPORT_INTERVAL" default:"1"`
	Network           string        `envconfig:"NETWORK" default:"tcp"`
	MaxRate           int           `envconfig:"MAX_RATE" default:"0"`
	TemplatesFile     string        `envconfig:"TEMPLATES_FILE"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	LogRelayAddress   string        `envconfig:"LOG_RELAY_ADDRESS"`
	InsightsURL       string        `envconfig:"INSIGHTS_URL" default:"https://insights-collector.newrelic.com/v1/accounts"`
	InsightsInsertKey string        `envconfig:"INSIGHTS_INSERT_KEY"`
	InsightsAccountID string        `envconfig:"INSIGHTS_ACCOUNT_ID"`
	InsightsInterval  time.Duration `envconfig:"INSIGHTS_INTERVAL" default:"1m"`
}

// A ConfigurationError is reported to the operator along with the usage
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the arguments and config together before anything is
// started.
func (c *Config) Validate(args *Args) error {
	if args.Length != 0 && (args.Length < event.MinEventLength || args.Length > event.MaxMessageLength) {
		return &ConfigurationError{
			Field:  "event length",
			Reason: fmt.Sprintf("%d is outside [%d-%d]", args.Length, event.MinEventLength, event.MaxMessageLength),
		}
	}

	if args.Host == "" || args.Port == "" {
		return &ConfigurationError{Field: "target", Reason: "host and port are both required"}
	}

	switch c.Strategy {
	case StrategyTemplate, StrategyFiller:
	default:
		return &ConfigurationError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy '%s'", c.Strategy)}
	}

	switch c.Network {
	case "tcp", "tcp4", "tcp6", "udp", "udp4", "udp6":
	default:
		return &ConfigurationError{Field: "network", Reason: fmt.Sprintf("unsupported network '%s'", c.Network)}
	}

	if c.ReportInterval < 1 {
		return &ConfigurationError{Field: "report interval", Reason: "must be at least 1 second"}
	}

	if c.MaxRate < 0 {
		return &ConfigurationError{Field: "max rate", Reason: "must not be negative"}
	}

	if (c.InsightsInsertKey == "") != (c.InsightsAccountID == "") {
		return &ConfigurationError{Field: "insights", Reason: "insert key and account ID must be set together"}
	}

	return nil
}

// InsightsEnabled is true when there is somewhere to send Insights events
func (c *Config) InsightsEnabled() bool {
	return c.InsightsInsertKey != "" && c.InsightsAccountID != ""
}

// Printable returns a copy of the Config that is safe to print
func (c Config) Printable() Config {
	if c.InsightsInsertKey != "" {
		c.InsightsInsertKey = "********"
	}
	return c
}

// newBodyGenerator builds the configured body strategy on the shared random
// source.
func newBodyGenerator(config *Config, rnd *rand.Rand) (event.BodyGenerator, error) {
	if config.Strategy == StrategyFiller {
		return event.NewFillerBody(rnd), nil
	}

	templates := event.DefaultTemplates()
	if config.TemplatesFile != "" {
		var err error
		templates, err = event.LoadTemplates(config.TemplatesFile)
		if err != nil {
			return nil, err
		}
	}

	return event.NewTemplateBody(rnd, templates), nil
}
