//go:build unblock_debug

package planar

// Debug enables argument and precondition checks.
const Debug = true
