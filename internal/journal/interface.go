package journal

import (
	"context"
	"time"
)

// Recorder is what the rest of the program records value changes through.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
	Entries(ctx context.Context, limit int) ([]Entry, error)
	Close() error
	Enabled() bool
}

// Repository is the storage behind a Recorder.
type Repository interface {
	Record(entry *Entry) error
	Entries(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Entry is one accepted value change.
type Entry struct {
	Timestamp time.Time
	Value     float64
	Origin    string
}
