package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/noodle-lang/noodlec/internal/compiler"
)

// formatVersion is mixed into every key so a change to the bytecode layout
// invalidates old entries.
const formatVersion = 2

// Key returns the cache key for compiling source with opts. Only options
// that change the output take part in it.
func Key(source string, opts compiler.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "v%d optimize=%t debug=%t\x00", formatVersion, opts.Optimize, opts.Debug)
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}
