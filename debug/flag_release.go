//go:build !debug

package debug

// Debug is set by the debug build tag.
const Debug = false

// Assert does nothing unless the debug build tag is set.
func Assert(condition bool, message ...string) {}
