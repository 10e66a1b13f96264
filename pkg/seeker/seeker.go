// File: pkg/seeker/seeker.go

// Package seeker locates delimiter bytes in a seekable stream, walking either
// from the head or from the tail in fixed-size chunks so that memory use does
// not depend on the size of the stream.
package seeker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultChunkSize is the number of bytes read per I/O call.
const DefaultChunkSize = 4096

// MaxChunkSize bounds the per-seeker read buffer.
const MaxChunkSize = 1 << 20

var (
	// ErrNotFound is returned when the unsearched region holds no delimiter.
	ErrNotFound = errors.New("delimiter not found")
	// ErrInvalidCount is returned by SeekNth and SeekNthBack for n < 1.
	ErrInvalidCount = errors.New("occurrence count must be positive")
)

// Seeker owns one io.ReadSeeker and keeps two independent cursors over it:
// a forward cursor that only grows and a backward cursor that only shrinks.
type Seeker struct {
	rs        io.ReadSeeker
	chunkSize int
	length    int64

	fwd     int64 // next unread byte of the forward walk
	bwd     int64 // last unread byte of the backward walk (inclusive)
	fwdDone bool
	bwdDone bool

	buf []byte
}

// New wraps rs using DefaultChunkSize.
func New(rs io.ReadSeeker) (*Seeker, error) {
	return NewSize(rs, DefaultChunkSize)
}

// NewSize wraps rs, reading at most chunkSize bytes per call. Sizes above
// MaxChunkSize are lowered to it.
// The stream length is taken once by seeking to the end; the stream is then
// rewound to the start.
func NewSize(rs io.ReadSeeker, chunkSize int) (*Seeker, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize > MaxChunkSize {
		chunkSize = MaxChunkSize
	}
	length, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to seek to end: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind: %w", err)
	}
	s := &Seeker{
		rs:        rs,
		chunkSize: chunkSize,
		length:    length,
		buf:       make([]byte, chunkSize),
	}
	s.Reset()
	return s, nil
}

// Len returns the stream length measured by New.
func (s *Seeker) Len() int64 { return s.length }

// Reset puts both cursors back at their initial positions and clears the
// exhaustion flags. The length is not measured again.
func (s *Seeker) Reset() {
	s.fwd = 0
	s.bwd = 0
	if s.length > 0 {
		s.bwd = s.length - 1
	}
	s.fwdDone = false
	s.bwdDone = false
}

// SeekNext continues the forward walk and returns the absolute offset of the
// next delim. The forward cursor moves one past the returned offset.
func (s *Seeker) SeekNext(delim byte) (int64, error) {
	if s.fwdDone {
		return 0, ErrNotFound
	}
	if s.fwd >= s.length {
		s.fwdDone = true
		return 0, ErrNotFound
	}

	if s.length-s.fwd == 1 {
		b, err := s.readByte(s.fwd)
		if err != nil {
			return 0, err
		}
		pos := s.fwd
		s.fwd++
		s.fwdDone = true
		if b != delim {
			return 0, ErrNotFound
		}
		return pos, nil
	}

	for s.fwd < s.length {
		n := int64(s.chunkSize)
		if rest := s.length - s.fwd; rest < n {
			n = rest
		}
		chunk, err := s.readAt(s.fwd, int(n))
		if err != nil {
			return 0, err
		}
		if i := bytes.IndexByte(chunk, delim); i >= 0 {
			pos := s.fwd + int64(i)
			s.fwd = pos + 1
			return pos, nil
		}
		s.fwd += n
	}

	s.fwdDone = true
	return 0, ErrNotFound
}

// SeekBack continues the backward walk and returns the absolute offset,
// measured from the start of the stream, of the previous delim.
func (s *Seeker) SeekBack(delim byte) (int64, error) {
	if s.bwdDone {
		return 0, ErrNotFound
	}
	if s.length == 0 {
		s.bwdDone = true
		return 0, ErrNotFound
	}

	if s.bwd == 0 {
		b, err := s.readByte(0)
		if err != nil {
			return 0, err
		}
		s.bwdDone = true
		if b != delim {
			return 0, ErrNotFound
		}
		return 0, nil
	}

	for {
		start := s.bwd - int64(s.chunkSize) + 1
		if start < 0 {
			start = 0
		}
		chunk, err := s.readAt(start, int(s.bwd-start+1))
		if err != nil {
			return 0, err
		}
		if i := bytes.LastIndexByte(chunk, delim); i >= 0 {
			pos := start + int64(i)
			if pos == 0 {
				s.bwdDone = true
			} else {
				s.bwd = pos - 1
			}
			return pos, nil
		}
		if start == 0 {
			s.bwdDone = true
			return 0, ErrNotFound
		}
		s.bwd = start - 1
	}
}

// SeekNth calls SeekNext n times and returns the last offset.
// It stops at the first failure and returns no partial result.
func (s *Seeker) SeekNth(delim byte, n int) (int64, error) {
	return s.nth(s.SeekNext, delim, n)
}

// SeekNthBack calls SeekBack n times and returns the last offset.
func (s *Seeker) SeekNthBack(delim byte, n int) (int64, error) {
	return s.nth(s.SeekBack, delim, n)
}

func (s *Seeker) nth(step func(byte) (int64, error), delim byte, n int) (int64, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	var pos int64
	for i := 0; i < n; i++ {
		p, err := step(delim)
		if err != nil {
			return 0, err
		}
		pos = p
	}
	return pos, nil
}

func (s *Seeker) readByte(off int64) (byte, error) {
	b, err := s.readAt(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *Seeker) readAt(off int64, n int) ([]byte, error) {
	if _, err := s.rs.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to offset %d: %w", off, err)
	}
	if _, err := io.ReadFull(s.rs, s.buf[:n]); err != nil {
		return nil, fmt.Errorf("failed to read %d bytes at offset %d: %w", n, off, err)
	}
	return s.buf[:n], nil
}
