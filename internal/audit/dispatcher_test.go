package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

type collectSink struct {
	mu      sync.Mutex
	records []Record
	block   chan struct{}
}

func (s *collectSink) Emit(ctx context.Context, record Record) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()
}

func (s *collectSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func TestDispatcherForwardsRecords(t *testing.T) {
	sink := &collectSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Record{Action: ActionLogin, AccountID: "u1"})
	}
	d.Close()

	if got := sink.len(); got != 5 {
		t.Fatalf("expected 5 records after Close, got %d", got)
	}
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &collectSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	// nil receivers must be safe on the login path.
	d.Emit(context.Background(), Record{Action: ActionLogin})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops on nil dispatcher")
	}
}

func TestDropIfFullCountsDrops(t *testing.T) {
	sink := &collectSink{block: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// The worker blocks on the first record; the buffer holds one more.
	// Everything past that is dropped.
	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Record{Action: ActionLoginFailed})
	}

	deadline := time.Now().Add(2 * time.Second)
	for d.Dropped() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if d.Dropped() == 0 {
		t.Fatal("expected at least one dropped record")
	}

	close(sink.block)
	d.Close()
}

func TestEmitAfterCloseIsNoOp(t *testing.T) {
	sink := &collectSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	d.Close()
	d.Emit(context.Background(), Record{Action: ActionLogin})
	d.Close()

	if got := sink.len(); got != 0 {
		t.Fatalf("expected no records after Close, got %d", got)
	}
}

func TestJSONWriterSinkWritesOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Record{
		Timestamp: time.Unix(1700000000, 0).UTC(),
		Action:    ActionLogin,
		AccountID: "u1",
		Success:   true,
		Metadata:  map[string]string{"identifier": "alice"},
	})
	sink.Emit(context.Background(), Record{
		Action:  ActionLoginFailed,
		Success: false,
		Error:   "invalid_credentials",
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var first Record
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not valid JSON: %v", err)
	}
	if first.Action != ActionLogin || first.AccountID != "u1" || !first.Success {
		t.Fatalf("unexpected first record: %+v", first)
	}
}
