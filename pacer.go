package main

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	limiter "github.com/sethvargo/go-limiter"
	"github.com/sethvargo/go-limiter/memorystore"
	log "github.com/sirupsen/logrus"
)

// A RateLimitedWriter caps how many writes per interval reach the wrapped
// writer. Writes over the limit wait for the next interval rather than being
// dropped, so every event still goes out.
type RateLimitedWriter struct {
	limitStore limiter.Store
	output     io.Writer
	limitKey   string

	throttled uint64
}

func NewRateLimitedWriter(tokenLimit int, interval time.Duration, key string,
	output io.Writer) (*RateLimitedWriter, error) {

	store, err := memorystore.New(&memorystore.Config{
		// Number of tokens allowed per interval.
		Tokens: uint64(tokenLimit),

		// Interval until tokens reset.
		Interval: interval,
	})
	if err != nil {
		return nil, err
	}

	return &RateLimitedWriter{
		limitStore: store,
		output:     output,
		limitKey:   key,
	}, nil
}

// waitForToken blocks until the limiter hands out a token
func (w *RateLimitedWriter) waitForToken() {
	for {
		limit, remaining, reset, ok, err := w.limitStore.Take(context.Background(), w.limitKey)
		log.Debugf("Checking rate limit: %d %d %d %t", limit, remaining, reset, ok)
		if err != nil {
			log.Warnf("Unable to fetch rate limit for %v, sending anyway: %s", w.limitKey, err)
			return
		}

		if ok {
			return
		}

		atomic.AddUint64(&w.throttled, 1)
		time.Sleep(time.Until(time.Unix(0, int64(reset))))
	}
}

func (w *RateLimitedWriter) Write(p []byte) (int, error) {
	w.waitForToken()
	return w.output.Write(p)
}

// Throttled is the number of times a write had to wait
func (w *RateLimitedWriter) Throttled() uint64 {
	return atomic.LoadUint64(&w.throttled)
}

// Stop cleans up our resources on shutdown
func (w *RateLimitedWriter) Stop() {
	w.limitStore.Close(context.Background())
}
