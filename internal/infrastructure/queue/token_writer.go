package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/security"
	"github.com/oauthcore/auth-server/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 10 * time.Second
)

// ErrWriterClosed is returned by Submit once Stop has been called.
var ErrWriterClosed = errors.New("token writer closed")

// TokenSaver is the store operation the writer drives.
type TokenSaver interface {
	SaveToken(ctx context.Context, token *domain.Token) error
}

// TokenWriter persists issued tokens in the background. Tokens are sharded
// across a fixed set of workers by username, so writes for one user are
// applied in submission order. Submit returns as soon as the token is queued;
// a crash before the worker flushes loses the token.
type TokenWriter struct {
	workers []chan domain.Token
	store   TokenSaver
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewTokenWriter creates a TokenWriter with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewTokenWriter(numWorkers int, store TokenSaver, log zerolog.Logger) *TokenWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &TokenWriter{
		workers: make([]chan domain.Token, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan domain.Token, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers run until Stop drains them.
func (w *TokenWriter) Start() {
	for i, ch := range w.workers {
		w.wg.Add(1)
		go w.runWorker(i, ch)
	}
}

// Submit queues token for persistence. It blocks only while the target
// worker's buffer is full, and gives up when ctx ends.
func (w *TokenWriter) Submit(ctx context.Context, token domain.Token) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWriterClosed
	}

	id := w.shardIndex(token.Username)
	select {
	case w.workers[id] <- token:
		metrics.TokenWriteQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(w.workers[id])))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new tokens, flushes everything already queued and waits for
// the workers to exit or ctx to end.
func (w *TokenWriter) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		for _, ch := range w.workers {
			close(ch)
		}
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a username deterministically to a worker index.
func (w *TokenWriter) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(w.workers)))
}

func (w *TokenWriter) runWorker(id int, ch <-chan domain.Token) {
	defer w.wg.Done()
	label := strconv.Itoa(id)

	for token := range ch {
		metrics.TokenWriteQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		// The request that issued the token has usually finished by now, so
		// the write gets its own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := w.store.SaveToken(ctx, &token)
		cancel()

		if err != nil {
			metrics.TokenWritesTotal.WithLabelValues("error").Inc()
			w.log.Error().Err(err).
				Str("username", token.Username).
				Str("token_fp", security.Fingerprint(token.Value)).
				Int("worker_id", id).
				Msg("token write failed")
			continue
		}
		metrics.TokenWritesTotal.WithLabelValues("ok").Inc()
	}
}
