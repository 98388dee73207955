package syncer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/log"
)

func init() {
	config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

type recordingWriter struct {
	mu     sync.Mutex
	writes []Progress
	fail   bool
}

func (w *recordingWriter) WriteProgress(_ context.Context, p Progress) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return fmt.Errorf("offline")
	}
	w.writes = append(w.writes, p)
	return nil
}

func (w *recordingWriter) setFail(v bool) {
	w.mu.Lock()
	w.fail = v
	w.mu.Unlock()
}

func (w *recordingWriter) all() []Progress {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Progress(nil), w.writes...)
}

func TestBurstCollapsesToOneWrite(t *testing.T) {
	writer := &recordingWriter{}
	s := NewProgressSyncer(writer, WithInterval(time.Hour))
	defer s.Close()

	for i := 0; i < 50; i++ {
		s.Queue(Progress{BookID: "b1", CFI: fmt.Sprintf("epubcfi(/6/%d)", i), Percentage: float64(i)})
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	writes := writer.all()
	if len(writes) != 1 {
		t.Fatalf("burst of 50 produced %d writes, want 1", len(writes))
	}
	if writes[0].CFI != "epubcfi(/6/49)" || writes[0].Percentage != 49 {
		t.Errorf("last value must win, got %+v", writes[0])
	}
}

func TestBooksFlushIndependently(t *testing.T) {
	writer := &recordingWriter{}
	s := NewProgressSyncer(writer, WithInterval(time.Hour))
	defer s.Close()

	s.Queue(Progress{BookID: "b1", CFI: "a", Percentage: 10})
	s.Queue(Progress{BookID: "b2", CFI: "b", Percentage: 20})
	if err := s.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := len(writer.all()); got != 2 {
		t.Errorf("two books queued, %d writes, want 2", got)
	}
}

func TestFailedWriteReconcilesOnNextFlush(t *testing.T) {
	writer := &recordingWriter{}
	writer.setFail(true)
	s := NewProgressSyncer(writer, WithInterval(time.Hour))
	defer s.Close()

	s.Queue(Progress{BookID: "b1", CFI: "x", Percentage: 30})
	if err := s.Flush(context.Background()); err == nil {
		t.Fatal("flush while offline should report the write error")
	}
	if len(writer.all()) != 0 {
		t.Fatal("offline writer must not record writes")
	}

	writer.setFail(false)
	if err := s.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	writes := writer.all()
	if len(writes) != 1 || writes[0].CFI != "x" {
		t.Fatalf("cached position not reconciled, writes: %+v", writes)
	}
}

func TestNewerPositionBeatsCachedOne(t *testing.T) {
	writer := &recordingWriter{}
	writer.setFail(true)
	s := NewProgressSyncer(writer, WithInterval(time.Hour))
	defer s.Close()

	s.Queue(Progress{BookID: "b1", CFI: "stale", Percentage: 10})
	s.Flush(context.Background())

	writer.setFail(false)
	s.Queue(Progress{BookID: "b1", CFI: "fresh", Percentage: 90})
	if err := s.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	writes := writer.all()
	if len(writes) != 1 || writes[0].CFI != "fresh" {
		t.Fatalf("pending position must override cached one, writes: %+v", writes)
	}
}

func TestCloseDrainsPending(t *testing.T) {
	writer := &recordingWriter{}
	s := NewProgressSyncer(writer, WithInterval(time.Hour))

	s.Queue(Progress{BookID: "b1", CFI: "end", Percentage: 100})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if got := len(writer.all()); got != 1 {
		t.Errorf("close dropped %d pending position(s)", 1-got)
	}
}

func TestTimerFlushes(t *testing.T) {
	writer := &recordingWriter{}
	s := NewProgressSyncer(writer, WithInterval(10*time.Millisecond))
	defer s.Close()

	s.Queue(Progress{BookID: "b1", CFI: "t", Percentage: 5})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(writer.all()) > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("ticker never flushed the queued position")
}
