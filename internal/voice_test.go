package internal

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/faraday-ai/faraday-dashboard/testutil"
)

// stubSource scripts an AudioSource segment by segment
type stubSegment struct {
	name     string
	content  string
	duration time.Duration
	err      error
}

type stubSource struct {
	mu       sync.Mutex
	segments []stubSegment
	next     int
	closed   bool
}

func (s *stubSource) Next(ctx context.Context) (io.ReadCloser, string, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.segments) {
		return nil, "", 0, io.EOF
	}
	seg := s.segments[s.next]
	s.next++
	if seg.err != nil {
		return nil, seg.name, 0, seg.err
	}
	return io.NopCloser(strings.NewReader(seg.content)), seg.name, seg.duration, nil
}

func (s *stubSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubSource) wasClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func captureAPI(t *testing.T, mock *testutil.MockAPI) *APIClient {
	t.Helper()
	api, err := NewAPIClient(mock.URL())
	if err != nil {
		t.Fatalf("NewAPIClient() error = %v", err)
	}
	return api
}

func collectText(t *testing.T, c *FileCapture) []string {
	t.Helper()
	var out []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case text, ok := <-c.Text():
			if !ok {
				return out
			}
			out = append(out, text)
		case <-timeout:
			t.Fatal("capture did not finish")
		}
	}
}

func TestFileCaptureEmitsRecognizedText(t *testing.T) {
	mock := testutil.NewMockAPI(t)
	mock.TranscribeText = "hello class"
	source := &stubSource{segments: []stubSegment{
		{name: "a.wav", content: "audio-a"},
		{name: "b.wav", content: "audio-b"},
	}}

	capture := NewFileCapture(source, captureAPI(t, mock), 500*time.Millisecond)
	if err := capture.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	got := collectText(t, capture)
	if len(got) != 2 || got[0] != "hello class" {
		t.Errorf("recognized = %v", got)
	}
	if !source.wasClosed() {
		t.Error("source not released after exhaustion")
	}

	select {
	case err := <-capture.Err():
		t.Errorf("unexpected terminal error: %v", err)
	default:
	}
}

func TestFileCaptureSkipsShortSegments(t *testing.T) {
	mock := testutil.NewMockAPI(t)
	source := &stubSource{segments: []stubSegment{
		{name: "blip.wav", content: "x", duration: 100 * time.Millisecond},
		{name: "real.wav", content: "y", duration: 2 * time.Second},
	}}

	capture := NewFileCapture(source, captureAPI(t, mock), 500*time.Millisecond)
	if err := capture.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	got := collectText(t, capture)
	if len(got) != 1 {
		t.Errorf("recognized %d segments, want short one skipped", len(got))
	}
}

func TestFileCaptureUnknownDurationNotSkipped(t *testing.T) {
	mock := testutil.NewMockAPI(t)
	source := &stubSource{segments: []stubSegment{
		{name: "unknown.wav", content: "x", duration: 0},
	}}

	capture := NewFileCapture(source, captureAPI(t, mock), 500*time.Millisecond)
	if err := capture.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if got := collectText(t, capture); len(got) != 1 {
		t.Errorf("zero-duration segment was skipped, recognized = %v", got)
	}
}

func TestFileCaptureGivesUpAfterConsecutiveErrors(t *testing.T) {
	mock := testutil.NewMockAPI(t)
	broken := errors.New("mic unplugged")
	source := &stubSource{segments: []stubSegment{
		{name: "a.wav", err: broken},
		{name: "b.wav", err: broken},
		{name: "c.wav", err: broken},
		{name: "d.wav", content: "never reached"},
	}}

	capture := NewFileCapture(source, captureAPI(t, mock), 0)
	if err := capture.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if got := collectText(t, capture); len(got) != 0 {
		t.Errorf("capture continued past the error threshold: %v", got)
	}

	select {
	case err := <-capture.Err():
		var capErr *CaptureError
		if !errors.As(err, &capErr) {
			t.Errorf("terminal error = %T, want *CaptureError", err)
		}
		if !errors.Is(err, broken) {
			t.Errorf("terminal error does not wrap the source failure: %v", err)
		}
	default:
		t.Error("no terminal error after three consecutive failures")
	}
	if !source.wasClosed() {
		t.Error("source not released on the error path")
	}
}

func TestFileCaptureErrorCounterResets(t *testing.T) {
	mock := testutil.NewMockAPI(t)
	broken := errors.New("glitch")
	source := &stubSource{segments: []stubSegment{
		{name: "a.wav", err: broken},
		{name: "b.wav", err: broken},
		{name: "c.wav", content: "ok"},
		{name: "d.wav", err: broken},
		{name: "e.wav", content: "ok again"},
	}}

	capture := NewFileCapture(source, captureAPI(t, mock), 0)
	if err := capture.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if got := collectText(t, capture); len(got) != 2 {
		t.Errorf("recognized = %v, want two segments across interleaved failures", got)
	}
	select {
	case err := <-capture.Err():
		t.Errorf("unexpected terminal error: %v", err)
	default:
	}
}

func TestFileCaptureStop(t *testing.T) {
	mock := testutil.NewMockAPI(t)
	source := &stubSource{} // immediately EOF

	capture := NewFileCapture(source, captureAPI(t, mock), 0)
	if err := capture.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	collectText(t, capture)

	if err := capture.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := capture.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := testutil.WriteTempFile(t, "clip.wav", []byte("fake audio bytes"))

	source := NewFileSource(path)
	ctx := context.Background()

	rc, name, duration, err := source.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	defer rc.Close()
	if name != "clip.wav" {
		t.Errorf("segment name = %q", name)
	}
	if duration != 0 {
		t.Errorf("file duration = %v, want 0 (unknown)", duration)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != "fake audio bytes" {
		t.Errorf("segment content = %q", data)
	}

	if _, _, _, err := source.Next(ctx); err != io.EOF {
		t.Errorf("Next() after exhaustion = %v, want io.EOF", err)
	}
	if err := source.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	source := NewFileSource("/no/such/file.wav")
	_, name, _, err := source.Next(context.Background())
	if err == nil {
		t.Fatal("Next() on missing file succeeded")
	}
	if name != "file.wav" {
		t.Errorf("segment name = %q", name)
	}
}
