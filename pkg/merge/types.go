// File: pkg/merge/types.go
package merge

import (
	"fmt"
	"io"

	"admerge/pkg/seeker"
)

// Unit selects what a Skip counts.
type Unit int

const (
	UnitNone  Unit = iota // no skip configured
	UnitLines             // count '\n'-delimited lines
	UnitBytes             // count raw bytes
)

func (u Unit) String() string {
	switch u {
	case UnitNone:
		return "none"
	case UnitLines:
		return "lines"
	case UnitBytes:
		return "bytes"
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Skip describes how much to trim from one end of each file.
// Once skips leave the boundary file alone: the first file for head skips,
// the last file for tail skips.
type Skip struct {
	Unit  Unit
	Count int64
	Once  bool
}

// Lines skips n lines from every file.
func Lines(n int64) Skip { return Skip{Unit: UnitLines, Count: n} }

// LinesOnce skips n lines from every file except the boundary one.
func LinesOnce(n int64) Skip { return Skip{Unit: UnitLines, Count: n, Once: true} }

// Bytes skips n bytes from every file.
func Bytes(n int64) Skip { return Skip{Unit: UnitBytes, Count: n} }

// BytesOnce skips n bytes from every file except the boundary one.
func BytesOnce(n int64) Skip { return Skip{Unit: UnitBytes, Count: n, Once: true} }

// IsZero reports whether the skip trims nothing.
func (s Skip) IsZero() bool { return s.Unit == UnitNone || s.Count == 0 }

func (s Skip) String() string {
	if s.Unit == UnitNone {
		return "none"
	}
	if s.Once {
		return fmt.Sprintf("%d %s (once)", s.Count, s.Unit)
	}
	return fmt.Sprintf("%d %s", s.Count, s.Unit)
}

// Newline is the terminator appended when forcing a trailing newline.
type Newline int

const (
	NewlineNone Newline = iota
	NewlineLF
	NewlineCRLF
)

// Bytes returns the terminator sequence, nil for NewlineNone.
func (n Newline) Bytes() []byte {
	switch n {
	case NewlineLF:
		return []byte{'\n'}
	case NewlineCRLF:
		return []byte{'\r', '\n'}
	}
	return nil
}

func (n Newline) String() string {
	switch n {
	case NewlineNone:
		return "none"
	case NewlineLF:
		return "lf"
	case NewlineCRLF:
		return "crlf"
	}
	return fmt.Sprintf("Newline(%d)", int(n))
}

// TrimRange is the [Start, End) byte interval of a file that survives
// skipping. 0 <= Start <= End <= file length.
type TrimRange struct {
	Start int64
	End   int64
}

// Len returns the number of bytes in the range.
func (r TrimRange) Len() int64 { return r.End - r.Start }

// IsFull reports whether r covers a file of the given length entirely.
func (r TrimRange) IsFull(length int64) bool { return r.Start == 0 && r.End == length }

// FileSlot is a file's place in the merge sequence.
type FileSlot struct {
	Name  string
	Index int
	First bool
	Last  bool
}

func newSlot(name string, index, total int) FileSlot {
	return FileSlot{
		Name:  name,
		Index: index,
		First: index == 0,
		Last:  index == total-1,
	}
}

// Source is one input: a display name and a seekable reader.
type Source struct {
	Name string
	R    io.ReadSeeker
}

// Options is the resolved configuration of a merge run.
type Options struct {
	SkipHead  Skip    // trim from the start of each file
	SkipTail  Skip    // trim from the end of each file
	Pad       Pad     // literal bytes around files
	Newline   Newline // forced trailing terminator, NewlineNone to disable
	ChunkSize int     // seek chunk size, 0 for seeker.DefaultChunkSize
}

// Validate rejects options the merger cannot act on unambiguously.
func (o Options) Validate() error {
	for _, s := range []struct {
		end  End
		skip Skip
	}{{EndHead, o.SkipHead}, {EndTail, o.SkipTail}} {
		switch s.skip.Unit {
		case UnitNone, UnitLines, UnitBytes:
		default:
			return invalidOptions("unknown %s skip unit %d", s.end, int(s.skip.Unit))
		}
		if s.skip.Count < 0 {
			return invalidOptions("%s skip count must not be negative, got %d", s.end, s.skip.Count)
		}
		if s.skip.Unit == UnitNone && (s.skip.Count != 0 || s.skip.Once) {
			return invalidOptions("%s skip has a count but no unit", s.end)
		}
	}
	switch o.Newline {
	case NewlineNone, NewlineLF, NewlineCRLF:
	default:
		return invalidOptions("unknown newline style %d", int(o.Newline))
	}
	if o.ChunkSize < 0 || o.ChunkSize > seeker.MaxChunkSize {
		return invalidOptions("chunk size must be between 0 and %d, got %d", seeker.MaxChunkSize, o.ChunkSize)
	}
	return nil
}
