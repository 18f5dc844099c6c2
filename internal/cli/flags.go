package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Flags holds the global command-line flag values
type Flags struct {
	CfgFile  string
	LogLevel string
	DBPath   string
	Project  string
	Jobs     int
	JSON     bool
	NoColor  bool

	// machine translation
	Timeout     time.Duration
	ItemTimeout time.Duration
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:    "warn",
		DBPath:      DefaultDBPath(),
		Project:     "default",
		Jobs:        runtime.NumCPU(),
		Timeout:     60 * time.Second,
		ItemTimeout: 90 * time.Second,
	}
}

// DefaultDBPath is the store location used when neither flag nor config
// names one.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "linguist.db"
	}
	return filepath.Join(home, ".local", "state", "linguist", "linguist.db")
}
