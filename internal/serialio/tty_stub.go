//go:build !linux

package serialio

import "fmt"

// OpenTTY is unavailable outside linux; use PipeTransport for tests and
// demos on other platforms.
func OpenTTY(path string, baud uint32) (Transport, error) {
	return nil, fmt.Errorf("serialio: OpenTTY not supported on this platform")
}
