package journal

import "codeberg.org/mutker/vernier/internal/errors"

const (
	// File system permissions and paths
	defaultDirPerm = 0o755
)

type Config struct {
	DBPath string
	// BatchSize is the number of entries buffered before a flush. Values
	// below 1 flush every entry immediately.
	BatchSize int
	// BatchTimeout is the flush interval in seconds; 0 disables the
	// background flusher.
	BatchTimeout int
	Enabled      bool
}

func DefaultConfig() Config {
	return Config{
		BatchSize:    16,
		BatchTimeout: 5,
		Enabled:      false, // Disabled by default
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate DBPath if the journal is enabled
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchTimeout < 0 {
		return errFactory.WithData(ErrInvalidConfig, "batch timeout must not be negative")
	}
	return nil
}
