// File: pkg/merge/skip.go
package merge

import (
	"errors"
	"fmt"
	"io"

	"admerge/pkg/seeker"
)

const lineFeed = '\n'

// effectiveSkip drops a once-skip on the boundary file it exempts.
func effectiveSkip(s Skip, boundary bool) Skip {
	if s.Once && boundary {
		return Skip{}
	}
	return s
}

// needsTrim reports whether any skip applies to slot.
func (o Options) needsTrim(slot FileSlot) bool {
	return !effectiveSkip(o.SkipHead, slot.First).IsZero() ||
		!effectiveSkip(o.SkipTail, slot.Last).IsZero()
}

// resolveRange turns the head and tail skips into the byte range of rs that
// survives trimming. Both ends are resolved independently; when they cross
// the range collapses to empty.
func resolveRange(slot FileSlot, rs io.ReadSeeker, sk *seeker.Seeker, head, tail Skip) (TrimRange, error) {
	head = effectiveSkip(head, slot.First)
	tail = effectiveSkip(tail, slot.Last)
	length := sk.Len()
	r := TrimRange{Start: 0, End: length}

	var terminated bool
	if (head.Unit == UnitLines && head.Count > 0) || (tail.Unit == UnitLines && tail.Count > 0) {
		var err error
		terminated, err = seeker.EndsWith(rs, lineFeed)
		if err != nil {
			return TrimRange{}, ioFailure(slot.Name, err)
		}
	}

	if !head.IsZero() {
		start, err := resolveHead(slot, sk, head, terminated)
		if err != nil {
			return TrimRange{}, err
		}
		r.Start = start
	}
	if !tail.IsZero() {
		end, err := resolveTail(slot, sk, tail, terminated)
		if err != nil {
			return TrimRange{}, err
		}
		r.End = end
	}

	if r.Start > r.End {
		r.End = r.Start
	}
	return r, nil
}

func resolveHead(slot FileSlot, sk *seeker.Seeker, s Skip, terminated bool) (int64, error) {
	length := sk.Len()
	if s.Unit == UnitBytes {
		if s.Count > length {
			return 0, insufficient(slot.Name, EndHead, "want %d bytes, file has %d", s.Count, length)
		}
		return s.Count, nil
	}

	// A file never has more lines than bytes.
	if s.Count > length {
		return 0, insufficient(slot.Name, EndHead, "file has fewer than %d lines", s.Count)
	}
	// An unterminated final fragment counts as one more line, bounded by EOF.
	pos, atEdge, err := lineBoundary(sk.SeekNth, sk.SeekNext, s.Count, length > 0 && !terminated)
	if err != nil {
		return 0, lineError(slot, EndHead, s.Count, err)
	}
	if atEdge {
		return length, nil
	}
	return pos + 1, nil
}

func resolveTail(slot FileSlot, sk *seeker.Seeker, s Skip, terminated bool) (int64, error) {
	length := sk.Len()
	if s.Unit == UnitBytes {
		if s.Count > length {
			return 0, insufficient(slot.Name, EndTail, "want %d bytes, file has %d", s.Count, length)
		}
		return length - s.Count, nil
	}

	if s.Count > length {
		return 0, insufficient(slot.Name, EndTail, "file has fewer than %d lines", s.Count)
	}

	// The kept content ends just after the delimiter of the last kept line.
	// On a terminated file the final delimiter belongs to a skipped line.
	d := s.Count
	if terminated {
		d++
	}
	pos, atEdge, err := lineBoundary(sk.SeekNthBack, sk.SeekBack, d, length > 0)
	if err != nil {
		return 0, lineError(slot, EndTail, s.Count, err)
	}
	if atEdge {
		return 0, nil
	}
	return pos + 1, nil
}

// lineBoundary locates the dth delimiter of one walk. When exactly d-1
// delimiters exist and edgeOK is set, the boundary is the edge of the stream
// and atEdge is true.
func lineBoundary(
	nth func(byte, int) (int64, error),
	next func(byte) (int64, error),
	d int64,
	edgeOK bool,
) (pos int64, atEdge bool, err error) {
	if d > 1 {
		if _, err := nth(lineFeed, int(d-1)); err != nil {
			return 0, false, err
		}
	}
	pos, err = next(lineFeed)
	if errors.Is(err, seeker.ErrNotFound) && edgeOK {
		return 0, true, nil
	}
	return pos, false, err
}

func lineError(slot FileSlot, end End, n int64, err error) error {
	if errors.Is(err, seeker.ErrNotFound) {
		return insufficient(slot.Name, end, "file has fewer than %d lines", n)
	}
	return ioFailure(slot.Name, fmt.Errorf("failed to locate line boundary: %w", err))
}
