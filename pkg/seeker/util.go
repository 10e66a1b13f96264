package seeker

import (
	"errors"
	"fmt"
	"io"
)

// ErrEmpty is returned by LastByte for a zero-length stream.
var ErrEmpty = errors.New("stream is empty")

// LastByte returns the final byte of rs and rewinds rs to the start.
func LastByte(rs io.ReadSeeker) (byte, error) {
	length, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to seek to end: %w", err)
	}
	if length == 0 {
		return 0, ErrEmpty
	}
	if _, err := rs.Seek(-1, io.SeekEnd); err != nil {
		return 0, fmt.Errorf("failed to seek to last byte: %w", err)
	}
	var buf [1]byte
	if _, err := io.ReadFull(rs, buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read last byte: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to rewind: %w", err)
	}
	return buf[0], nil
}

// EndsWith reports whether rs ends with b. An empty stream ends with nothing.
func EndsWith(rs io.ReadSeeker, b byte) (bool, error) {
	last, err := LastByte(rs)
	if errors.Is(err, ErrEmpty) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return last == b, nil
}
