package shell

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
	"github.com/AntonStoeckl/casino-floor-simulation/facility"
)

const (
	defaultBufferSize    = 8192
	defaultBatchSize     = 256
	defaultFlushInterval = 500 * time.Millisecond
)

var (
	// ErrNilSink is returned when the recorder is created without a sink.
	ErrNilSink = errors.New("sink must not be nil")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidBufferSize is returned when the buffer size is not positive.
	ErrInvalidBufferSize = errors.New("buffer size must be positive")

	// ErrInvalidFlushInterval is returned when the flush interval is not positive.
	ErrInvalidFlushInterval = errors.New("flush interval must be positive")
)

const (
	logMsgSinkWriteFailed = "writing events to sink failed"
	logMsgMappingFailed   = "mapping domain event failed"
	logMsgRecorderClosed  = "recorder closed"

	logAttrError     = "error"
	logAttrEventType = "event_type"
	logAttrBatchSize = "batch_size"
	logAttrWritten   = "written"
	logAttrDropped   = "dropped"
	logAttrFailed    = "failed"
)

// RecorderOption configures an AsyncRecorder.
type RecorderOption func(*AsyncRecorder) error

// WithBatchSize sets how many events are written to the sink at once.
func WithBatchSize(size int) RecorderOption {
	return func(r *AsyncRecorder) error {
		if size <= 0 {
			return ErrInvalidBatchSize
		}

		r.batchSize = size

		return nil
	}
}

// WithBufferSize sets how many events may wait for the writer before new ones are dropped.
func WithBufferSize(size int) RecorderOption {
	return func(r *AsyncRecorder) error {
		if size <= 0 {
			return ErrInvalidBufferSize
		}

		r.bufferSize = size

		return nil
	}
}

// WithFlushInterval sets how long a partial batch may wait before it is written.
func WithFlushInterval(interval time.Duration) RecorderOption {
	return func(r *AsyncRecorder) error {
		if interval <= 0 {
			return ErrInvalidFlushInterval
		}

		r.flushInterval = interval

		return nil
	}
}

// WithRunID sets the correlation id stamped on every event. A fresh id is generated otherwise.
func WithRunID(runID xid.ID) RecorderOption {
	return func(r *AsyncRecorder) error {
		r.runID = runID

		return nil
	}
}

func WithLogger(logger facility.Logger) RecorderOption {
	return func(r *AsyncRecorder) error {
		r.logger = logger

		return nil
	}
}

// RecorderStats counts what happened to the events handed to Record.
type RecorderStats struct {
	Recorded int64
	Written  int64
	Dropped  int64
	Failed   int64
}

// AsyncRecorder implements facility.Recorder. Record never blocks: events are buffered and a single
// writer goroutine maps them and hands them to the sink in batches. When the buffer is full,
// or after Close, events are dropped and counted.
type AsyncRecorder struct {
	sink          Sink
	runID         xid.ID
	batchSize     int
	bufferSize    int
	flushInterval time.Duration
	logger        facility.Logger

	mu     sync.RWMutex
	closed bool
	events chan core.DomainEvent
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error

	recorded atomic.Int64
	written  atomic.Int64
	dropped  atomic.Int64
	failed   atomic.Int64
}

func NewAsyncRecorder(sink Sink, options ...RecorderOption) (*AsyncRecorder, error) {
	if sink == nil {
		return nil, ErrNilSink
	}

	r := &AsyncRecorder{
		sink:          sink,
		runID:         xid.New(),
		batchSize:     defaultBatchSize,
		bufferSize:    defaultBufferSize,
		flushInterval: defaultFlushInterval,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	r.events = make(chan core.DomainEvent, r.bufferSize)
	r.done = make(chan struct{})

	go r.loop()

	return r, nil
}

// RunID is the correlation id of all events recorded by r.
func (r *AsyncRecorder) RunID() xid.ID {
	return r.runID
}

func (r *AsyncRecorder) Record(_ context.Context, event core.DomainEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.dropped.Add(1)
		return
	}

	select {
	case r.events <- event:
		r.recorded.Add(1)
	default:
		r.dropped.Add(1)
	}
}

func (r *AsyncRecorder) Stats() RecorderStats {
	return RecorderStats{
		Recorded: r.recorded.Load(),
		Written:  r.written.Load(),
		Dropped:  r.dropped.Load(),
		Failed:   r.failed.Load(),
	}
}

// Close writes everything still buffered, then closes the sink. It is safe to call more than once.
func (r *AsyncRecorder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.events)
		r.mu.Unlock()

		<-r.done

		r.closeErr = r.sink.Close()

		stats := r.Stats()
		r.info(logMsgRecorderClosed,
			logAttrWritten, stats.Written,
			logAttrDropped, stats.Dropped,
			logAttrFailed, stats.Failed,
		)
	})

	return r.closeErr
}

func (r *AsyncRecorder) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	batch := make(eventstore.StorableEvents, 0, r.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}

		if err := r.sink.Write(context.Background(), batch); err != nil {
			r.failed.Add(int64(len(batch)))
			r.warn(logMsgSinkWriteFailed, logAttrBatchSize, len(batch), logAttrError, err.Error())
		} else {
			r.written.Add(int64(len(batch)))
		}

		batch = make(eventstore.StorableEvents, 0, r.batchSize)
	}

	for {
		select {
		case event, ok := <-r.events:
			if !ok {
				flush()
				return
			}

			metadata := BuildEventMetadata(uuid.New(), event.HasCustomerID(), r.runID)
			storable, err := StorableEventFrom(event, metadata)
			if err != nil {
				r.failed.Add(1)
				r.warn(logMsgMappingFailed, logAttrEventType, event.IsEventType(), logAttrError, err.Error())
				continue
			}

			batch = append(batch, storable)
			if len(batch) >= r.batchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

func (r *AsyncRecorder) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}

func (r *AsyncRecorder) info(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}
