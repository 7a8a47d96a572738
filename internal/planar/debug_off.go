//go:build !unblock_debug

package planar

// Debug enables argument and precondition checks. Release builds skip them
// and rely on callers passing consistent images; a violation then panics or
// produces undefined pixel values. Build with -tags unblock_debug to check.
const Debug = false
