package main

import (
	"fmt"
	"os"

	"github.com/loopholelabs/logging"
	"github.com/loopholelabs/logging/types"
)

// newLogger builds the one real logger a CLI invocation shares across
// client/server construction.
// format is currently cosmetic (zerolog writes JSON either way); it exists
// so --log-format stays a stable flag if a text encoder is added later.
func newLogger(name, level, format string) (types.Logger, error) {
	log := logging.New(logging.Zerolog, name, os.Stderr)
	switch level {
	case "", "info":
		log.SetLevel(types.InfoLevel)
	case "debug":
		log.SetLevel(types.DebugLevel)
	case "warn":
		log.SetLevel(types.WarnLevel)
	case "error":
		log.SetLevel(types.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown --log-level %q: want debug|info|warn|error", level)
	}
	return log, nil
}
