//go:build linux

package pipeline

import "golang.org/x/sys/unix"

func currentThreadID() int {
	return unix.Gettid()
}
