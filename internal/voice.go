package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Capture is the capability interface for voice input. Implementations own
// their audio source exclusively for the duration of one capture session
// and must release it on every exit path, including errors. The
// conversation relay is the sole consumer of recognized text.
type Capture interface {
	Start(ctx context.Context) error
	Stop() error
	Text() <-chan string
	Err() <-chan error
}

// maxConsecutiveCaptureErrors stops a capture session that keeps failing
// instead of looping on a broken source.
const maxConsecutiveCaptureErrors = 3

// AudioSource yields captured audio segments. It abstracts over whatever
// the platform provides; the shipped implementation reads files.
type AudioSource interface {
	// Next returns the next audio segment, its name, and its capture
	// duration. io.EOF ends the session.
	Next(ctx context.Context) (io.ReadCloser, string, time.Duration, error)
	// Close releases the underlying device or handle.
	Close() error
}

// FileCapture feeds audio files through the remote speech-to-text endpoint
// and emits recognized text. It enforces a minimum capture duration and
// shuts down after too many consecutive transcription errors.
type FileCapture struct {
	source      AudioSource
	api         *APIClient
	minDuration time.Duration

	text   chan string
	errs   chan error
	done   chan struct{}
	closed bool
}

// NewFileCapture wires a capture session over an audio source
func NewFileCapture(source AudioSource, api *APIClient, minDuration time.Duration) *FileCapture {
	return &FileCapture{
		source:      source,
		api:         api,
		minDuration: minDuration,
		text:        make(chan string),
		errs:        make(chan error, 1),
		done:        make(chan struct{}),
	}
}

// Text returns the channel of recognized text segments
func (c *FileCapture) Text() <-chan string {
	return c.text
}

// Err returns the channel of terminal capture errors
func (c *FileCapture) Err() <-chan error {
	return c.errs
}

// Start runs the capture loop until the source is exhausted, the context
// ends, or Stop is called. The source is always released on exit.
func (c *FileCapture) Start(ctx context.Context) error {
	go func() {
		defer close(c.text)
		defer func() {
			if err := c.source.Close(); err != nil {
				LogWarn("Failed to release audio source: %v", err)
			}
		}()

		consecutiveErrors := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			default:
			}

			segment, name, duration, err := c.source.Next(ctx)
			if err == io.EOF {
				return
			}
			if err != nil {
				consecutiveErrors++
				LogWarn("Audio source error (%d consecutive): %v", consecutiveErrors, err)
				if consecutiveErrors >= maxConsecutiveCaptureErrors {
					c.fail(&CaptureError{Source: name, Err: fmt.Errorf("giving up after %d consecutive errors: %w", consecutiveErrors, err)})
					return
				}
				continue
			}

			if duration > 0 && duration < c.minDuration {
				segment.Close()
				LogDebug("Skipping %s: capture shorter than %s", name, c.minDuration)
				continue
			}

			recognized, err := c.api.Transcribe(ctx, name, segment)
			segment.Close()
			if err != nil {
				consecutiveErrors++
				LogWarn("Transcription failed (%d consecutive): %v", consecutiveErrors, err)
				if consecutiveErrors >= maxConsecutiveCaptureErrors {
					c.fail(&CaptureError{Source: name, Err: fmt.Errorf("giving up after %d consecutive errors: %w", consecutiveErrors, err)})
					return
				}
				continue
			}
			consecutiveErrors = 0

			if recognized == "" {
				continue
			}
			select {
			case c.text <- recognized:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}()
	return nil
}

// Stop ends the capture session. Safe to call more than once.
func (c *FileCapture) Stop() error {
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

func (c *FileCapture) fail(err error) {
	select {
	case c.errs <- err:
	default:
	}
}

// FileSource is an AudioSource over a fixed list of audio files
type FileSource struct {
	paths []string
	next  int
}

// NewFileSource creates a source that yields the given files in order
func NewFileSource(paths ...string) *FileSource {
	return &FileSource{paths: paths}
}

// Next opens the next file. Duration is unknown for plain files, so zero is
// reported and the minimum-duration check is skipped.
func (s *FileSource) Next(ctx context.Context) (io.ReadCloser, string, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", 0, err
	}
	if s.next >= len(s.paths) {
		return nil, "", 0, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	f, err := os.Open(path)
	if err != nil {
		return nil, filepath.Base(path), 0, err
	}
	return f, filepath.Base(path), 0, nil
}

// Close releases nothing for plain files but satisfies AudioSource
func (s *FileSource) Close() error {
	return nil
}
