//go:build !linux

package pipeline

// Thread identity is only checked on linux.
func currentThreadID() int {
	return 0
}
