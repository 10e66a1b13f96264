// File: pkg/merge/merge.go

// Package merge concatenates seekable files into one stream, trimming each
// file by lines or bytes, padding between files and normalizing the final
// newline of every file.
package merge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"admerge/pkg/seeker"

	"go.uber.org/zap"
)

// Merger runs merges with one validated set of Options.
type Merger struct {
	opts   Options
	logger *zap.Logger
}

// New validates opts and returns a Merger. A nil logger discards logs.
func New(opts Options, logger *zap.Logger) (*Merger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Merger{opts: opts, logger: logger}, nil
}

// Options returns the configuration the merger was built with.
func (m *Merger) Options() Options { return m.opts }

// Merge writes sources to w in order and returns the number of bytes written.
// Processing stops at the first failing source. Bytes are buffered and only
// flushed to w once every source succeeded; anything w received before a
// failure is not rolled back.
func (m *Merger) Merge(w io.Writer, sources []Source) (int64, error) {
	return m.run(w, len(sources), func(i int) (Source, func() error, error) {
		return sources[i], nil, nil
	})
}

// MergePaths opens each path only when its turn comes and closes it before
// moving on. Files after a failing one are never opened.
func (m *Merger) MergePaths(w io.Writer, paths []string) (int64, error) {
	return m.run(w, len(paths), func(i int) (Source, func() error, error) {
		f, err := os.Open(paths[i])
		if err != nil {
			return Source{Name: paths[i]}, nil, err
		}
		return Source{Name: paths[i], R: f}, f.Close, nil
	})
}

type openFunc func(i int) (src Source, closer func() error, err error)

func (m *Merger) run(w io.Writer, total int, open openFunc) (int64, error) {
	if total == 0 {
		m.logger.Error("No files to merge")
		return 0, &Error{Kind: KindEmptyInput, Err: ErrEmptyInput}
	}

	startTime := time.Now()
	m.logger.Debug("Starting merge",
		zap.Int("files", total),
		zap.Stringer("skipHead", m.opts.SkipHead),
		zap.Stringer("skipTail", m.opts.SkipTail),
		zap.Stringer("newline", m.opts.Newline))

	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}

	for i := 0; i < total; i++ {
		if err := m.processOne(cw, i, total, open); err != nil {
			var me *Error
			if !errors.As(err, &me) {
				me = &Error{Kind: KindIO, Err: err}
			}
			me.Offset = cw.n
			m.logger.Error("Failed to merge file",
				zap.String("file", me.Path),
				zap.Int("index", i),
				zap.Int64("outputOffset", cw.n),
				zap.Error(err))
			return cw.n, me
		}
	}

	if err := bw.Flush(); err != nil {
		m.logger.Error("Failed to flush output", zap.Error(err))
		return cw.n, &Error{Kind: KindIO, Offset: cw.n, Err: fmt.Errorf("failed to flush output: %w", err)}
	}

	m.logger.Info("Merged files",
		zap.Int("totalFiles", total),
		zap.Int64("bytesWritten", cw.n),
		zap.Duration("elapsed", time.Since(startTime)))
	return cw.n, nil
}

// processOne walks one file through PadBefore, CopyContent and PadAfter.
func (m *Merger) processOne(w *countingWriter, i, total int, open openFunc) (err error) {
	src, closer, err := open(i)
	if err != nil {
		return ioFailure(sourceName(src, i), fmt.Errorf("failed to open: %w", err))
	}
	if closer != nil {
		defer func() {
			if cerr := closer(); cerr != nil && err == nil {
				err = ioFailure(src.Name, fmt.Errorf("failed to close: %w", cerr))
			}
		}()
	}

	slot := newSlot(sourceName(src, i), i, total)
	if src.R == nil {
		return ioFailure(slot.Name, errors.New("source has no reader"))
	}
	logger := m.logger.With(zap.String("file", slot.Name), zap.Int("index", i))

	if pad := m.opts.Pad.BeforeFor(slot); pad != nil {
		if _, err := w.Write(pad); err != nil {
			return ioFailure(slot.Name, fmt.Errorf("failed to write padding: %w", err))
		}
	}

	if err := m.copyContent(w, slot, src.R, logger); err != nil {
		return err
	}

	if pad := m.opts.Pad.AfterFor(slot); pad != nil {
		if _, err := w.Write(pad); err != nil {
			return ioFailure(slot.Name, fmt.Errorf("failed to write padding: %w", err))
		}
	}
	return nil
}

func (m *Merger) copyContent(w *countingWriter, slot FileSlot, rs io.ReadSeeker, logger *zap.Logger) error {
	if !m.opts.needsTrim(slot) && m.opts.Newline == NewlineNone {
		logger.Debug("Raw copy")
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return ioFailure(slot.Name, fmt.Errorf("failed to rewind: %w", err))
		}
		if _, err := io.Copy(w, rs); err != nil {
			return ioFailure(slot.Name, fmt.Errorf("failed to copy: %w", err))
		}
		return nil
	}

	sk, err := seeker.NewSize(rs, m.opts.ChunkSize)
	if err != nil {
		return ioFailure(slot.Name, err)
	}
	r, err := resolveRange(slot, rs, sk, m.opts.SkipHead, m.opts.SkipTail)
	if err != nil {
		return err
	}
	logger.Debug("Resolved trim range",
		zap.Int64("start", r.Start),
		zap.Int64("end", r.End),
		zap.Int64("length", sk.Len()))

	tail := &lastByteWriter{w: w}
	if r.Len() > 0 {
		if _, err := rs.Seek(r.Start, io.SeekStart); err != nil {
			return ioFailure(slot.Name, fmt.Errorf("failed to seek to %d: %w", r.Start, err))
		}
		if _, err := io.CopyN(tail, rs, r.Len()); err != nil {
			return ioFailure(slot.Name, fmt.Errorf("failed to copy range [%d, %d): %w", r.Start, r.End, err))
		}
	}

	if m.opts.Newline != NewlineNone && (!tail.wrote || tail.last != lineFeed) {
		logger.Debug("Appending newline", zap.Stringer("style", m.opts.Newline))
		if _, err := w.Write(m.opts.Newline.Bytes()); err != nil {
			return ioFailure(slot.Name, fmt.Errorf("failed to write newline: %w", err))
		}
	}
	return nil
}

func sourceName(src Source, i int) string {
	if src.Name != "" {
		return src.Name
	}
	return fmt.Sprintf("#%d", i)
}

// countingWriter tracks the running output position for error reports.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// lastByteWriter remembers the final byte that passed through it.
type lastByteWriter struct {
	w     io.Writer
	last  byte
	wrote bool
}

func (l *lastByteWriter) Write(p []byte) (int, error) {
	n, err := l.w.Write(p)
	if n > 0 {
		l.last = p[n-1]
		l.wrote = true
	}
	return n, err
}
