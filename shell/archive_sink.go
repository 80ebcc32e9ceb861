package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
)

var (
	// ErrArchiveWriteFailed is returned when a batch could not be written to the archive.
	ErrArchiveWriteFailed = errors.New("writing to the event archive failed")

	// ErrArchiveReadFailed is returned when an archive file could not be read back.
	ErrArchiveReadFailed = errors.New("reading the event archive failed")
)

// archiveLine is one JSONL record. Payload and metadata are embedded as raw JSON.
type archiveLine struct {
	EventType  string              `json:"event_type"`
	OccurredAt time.Time           `json:"occurred_at"`
	Payload    jsoniter.RawMessage `json:"payload"`
	Metadata   jsoniter.RawMessage `json:"metadata"`
}

// ArchiveSink writes zstd compressed JSONL files, one per hour of wall clock time.
// File names are <prefix>-<yyyy-mm-dd-hh>.jsonl.zst inside baseDir.
type ArchiveSink struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewArchiveSink(baseDir, prefix string) *ArchiveSink {
	return &ArchiveSink{
		baseDir: baseDir,
		prefix:  prefix,
		now:     time.Now,
	}
}

func (s *ArchiveSink) Write(_ context.Context, events eventstore.StorableEvents) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hour := s.now().UTC().Format("2006-01-02-15")
	if hour != s.curHour {
		if err := s.rotateLocked(hour); err != nil {
			return errors.Join(ErrArchiveWriteFailed, err)
		}
	}

	for _, event := range events {
		b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(archiveLine{
			EventType:  event.EventType,
			OccurredAt: event.OccurredAt,
			Payload:    event.PayloadJSON,
			Metadata:   event.MetadataJSON,
		})
		if err != nil {
			return errors.Join(ErrArchiveWriteFailed, err)
		}

		if _, err = s.w.Write(b); err != nil {
			return errors.Join(ErrArchiveWriteFailed, err)
		}

		if err = s.w.WriteByte('\n'); err != nil {
			return errors.Join(ErrArchiveWriteFailed, err)
		}
	}

	if err := s.w.Flush(); err != nil {
		return errors.Join(ErrArchiveWriteFailed, err)
	}

	return nil
}

func (s *ArchiveSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closeLocked()
}

// PathForHour returns the file that receives events written during hour (formatted 2006-01-02-15).
func (s *ArchiveSink) PathForHour(hour string) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", s.prefix, hour))
}

func (s *ArchiveSink) rotateLocked(hour string) error {
	if err := s.closeLocked(); err != nil {
		return err
	}

	path := s.PathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}

	s.f = f
	s.enc = enc
	s.w = bufio.NewWriterSize(enc, 64*1024)
	s.curHour = hour

	return nil
}

func (s *ArchiveSink) closeLocked() error {
	var errs []error

	if s.w != nil {
		errs = append(errs, s.w.Flush())
	}

	if s.enc != nil {
		errs = append(errs, s.enc.Close())
		s.enc = nil
	}

	if s.f != nil {
		errs = append(errs, s.f.Close())
		s.f = nil
	}

	s.w = nil
	s.curHour = ""

	return errors.Join(errs...)
}

// ReadArchive decodes one archive file back into storable events, in the order they were written.
func ReadArchive(path string) (eventstore.StorableEvents, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, errors.Join(ErrArchiveReadFailed, err)
	}
	defer func() { _ = f.Close() }()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, errors.Join(ErrArchiveReadFailed, err)
	}
	defer dec.Close()

	events := make(eventstore.StorableEvents, 0)
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		var line archiveLine
		if err = jsoniter.ConfigFastest.Unmarshal(bytes.Clone(scanner.Bytes()), &line); err != nil {
			return nil, errors.Join(ErrArchiveReadFailed, err)
		}

		event, buildErr := eventstore.BuildStorableEvent(line.EventType, line.OccurredAt, line.Payload, line.Metadata)
		if buildErr != nil {
			return nil, errors.Join(ErrArchiveReadFailed, buildErr)
		}

		events = append(events, event)
	}

	if err = scanner.Err(); err != nil {
		return nil, errors.Join(ErrArchiveReadFailed, err)
	}

	return events, nil
}
