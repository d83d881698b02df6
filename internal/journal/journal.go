// Package journal keeps an sqlite history of accepted gauge values.
package journal

import (
	"context"
	"time"

	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/gauge"
	"codeberg.org/mutker/vernier/internal/logger"
)

type service struct {
	repo Repository
	cfg  Config
}

// No-op implementation
type noopRecorder struct{}

func NewService(cfg Config, log logger.Logger) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If the journal is disabled, return a no-op recorder
	if !cfg.Enabled {
		log.Debug().Msg("Journal disabled, using no-op recorder")
		return &noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create journal repository")
		return nil, err
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Bool("enabled", cfg.Enabled).
		Msg("Journal service initialized successfully")

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, entry *Entry) error {
	errFactory := errors.New()

	if entry == nil {
		return errFactory.New(ErrInvalidEntry)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Record(entry); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) Entries(ctx context.Context, limit int) ([]Entry, error) {
	return s.repo.Entries(ctx, limit)
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}
	return nil
}

func (*service) Enabled() bool { return true }

// No-op implementation
func (*noopRecorder) Record(_ context.Context, _ *Entry) error {
	return nil
}

func (*noopRecorder) Entries(_ context.Context, _ int) ([]Entry, error) {
	return nil, nil
}

func (*noopRecorder) Close() error {
	return nil
}

func (*noopRecorder) Enabled() bool { return false }

// Subscriber turns gauge changes into journal entries. Replays carry no new
// information and are skipped. Recording errors are logged, never returned
// to the gauge.
func Subscriber(ctx context.Context, rec Recorder, log logger.Logger) func(gauge.Change) {
	return func(ch gauge.Change) {
		if ch.Origin == gauge.OriginReplay {
			return
		}
		entry := &Entry{
			Timestamp: time.Now(),
			Value:     ch.Value,
			Origin:    ch.Origin.String(),
		}
		if err := rec.Record(ctx, entry); err != nil {
			log.Warn().Err(err).Float64("value", ch.Value).Msg("Failed to journal value change")
		}
	}
}
