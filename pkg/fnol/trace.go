package fnol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TraceEvent is one line in the JSONL audit trace.
type TraceEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	ThreadID  string      `json:"thread_id"`
	Event     *AuditEvent `json:"event"`
}

// TraceWriter appends audit events to a JSONL trace file.
type TraceWriter struct {
	file   *os.File
	writer *bufio.Writer
	enc    *json.Encoder
}

// NewTraceWriter creates a trace writer that appends to the given file.
func NewTraceWriter(path string) (*TraceWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	w := bufio.NewWriter(f)
	return &TraceWriter{
		file:   f,
		writer: w,
		enc:    json.NewEncoder(w),
	}, nil
}

// Write appends an audit event as a JSONL line and flushes to disk.
func (tw *TraceWriter) Write(threadID string, ev *AuditEvent) error {
	event := TraceEvent{
		Type:      "audit_event",
		Timestamp: time.Now(),
		ThreadID:  threadID,
		Event:     ev,
	}
	if err := tw.enc.Encode(event); err != nil {
		return fmt.Errorf("encode trace event: %w", err)
	}
	// Flush and sync at event boundaries
	if err := tw.writer.Flush(); err != nil {
		return fmt.Errorf("flush trace: %w", err)
	}
	if err := tw.file.Sync(); err != nil {
		return fmt.Errorf("sync trace: %w", err)
	}
	return nil
}

// Close flushes and closes the trace file.
func (tw *TraceWriter) Close() error {
	if err := tw.writer.Flush(); err != nil {
		return err
	}
	return tw.file.Close()
}
