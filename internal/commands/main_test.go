package commands

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	// Keep debug events from the package loggers out of test output.
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}
