//go:build linux

package serialio

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// baudRates maps a requested baud rate to the termios speed constant
// golang.org/x/sys/unix exposes for linux.
var baudRates = map[uint32]uint32{
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	921600:  unix.B921600,
	1000000: unix.B1000000,
}

// ttyTransport is a Transport backed by an opened POSIX tty device,
// configured for raw, 8N1, no-flow-control operation.
type ttyTransport struct {
	f *os.File
}

// OpenTTY opens path (e.g. "/dev/ttyUSB0") and configures it as an 8N1
// raw serial line running at baud. Returns an error if the device cannot
// be opened or baud is not one of the supported rates.
func OpenTTY(path string, baud uint32) (Transport, error) {
	speed, ok := baudRates[baud]
	if !ok {
		return nil, fmt.Errorf("serialio: unsupported baud rate %d", baud)
	}

	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("serialio: open %s: %w", path, err)
	}

	if err := setRawAttr(int(f.Fd()), speed); err != nil {
		f.Close()
		return nil, fmt.Errorf("serialio: configure %s: %w", path, err)
	}

	return &ttyTransport{f: f}, nil
}

func setRawAttr(fd int, speed uint32) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	t.Ispeed = speed
	t.Ospeed = speed

	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

// ReadByte reads the next byte off the tty, blocking until one arrives.
func (t *ttyTransport) ReadByte() (byte, error) {
	var b [1]byte
	for {
		n, err := t.f.Read(b[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return b[0], nil
		}
	}
}

// Write writes encoded to the tty in full.
func (t *ttyTransport) Write(encoded []byte) error {
	_, err := t.f.Write(encoded)
	return err
}

// Close closes the underlying tty file descriptor.
func (t *ttyTransport) Close() error {
	return t.f.Close()
}
