// Package checkpoint persists conversation state between turns, keyed by
// thread ID. The graph serializes its state after every run; a suspended
// conversation (awaiting user confirmation) resumes from the latest
// checkpoint of its thread.
package checkpoint

import (
	"context"
	"encoding/json"
	"time"
)

// Checkpoint is one saved conversation state.
type Checkpoint struct {
	ThreadID  string          `json:"thread_id"`
	State     json.RawMessage `json:"state"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ThreadInfo summarizes one stored thread for session listings.
type ThreadInfo struct {
	ThreadID  string    `json:"thread_id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store saves and loads checkpoints.
type Store interface {
	// Put saves the latest state for a thread, creating the thread on first
	// write. Title is kept from the first non-empty value.
	Put(ctx context.Context, threadID string, state json.RawMessage, title string) error

	// Latest returns the most recent checkpoint for a thread, or false when
	// the thread has none.
	Latest(ctx context.Context, threadID string) (*Checkpoint, bool, error)

	// Threads lists stored threads, most recently updated first.
	Threads(ctx context.Context) ([]ThreadInfo, error)

	// Delete removes a thread and its state.
	Delete(ctx context.Context, threadID string) error

	Close() error
}
