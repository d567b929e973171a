// Package obslog is the debug/logging surface the protocol core treats as
// an out-of-scope external collaborator. It wraps
// github.com/loopholelabs/logging the way loopholelabs-silo's cmd/serve.go
// constructs and threads a types.Logger through its components.
package obslog

import (
	"io"
	"os"

	"github.com/loopholelabs/logging"
	"github.com/loopholelabs/logging/types"
)

// New constructs a zerolog-backed types.Logger with the given name,
// writing to w (os.Stderr when w is nil).
func New(name string, w io.Writer) types.Logger {
	if w == nil {
		w = os.Stderr
	}
	return logging.New(logging.Zerolog, name, w)
}

// Noop returns a logger that discards everything, used as the default when
// a Client or Server is constructed without an explicit logger — logging
// is a debug surface, not a required collaborator.
func Noop() types.Logger {
	return logging.New(logging.Zerolog, "mirlib.noop", io.Discard)
}
