// File: pkg/config/config.go

// Package config resolves merge settings from defaults, an optional profile
// file (TOML or YAML), environment variables and command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"admerge/pkg/merge"
	"admerge/pkg/seeker"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Skip modes.
const (
	SkipModeLines = "lines"
	SkipModeBytes = "bytes"
)

// Pad modes.
const (
	PadModeBeforeStart = "beforestart"
	PadModeAfterEnd    = "afterend"
	PadModeBetween     = "between"
	PadModeAll         = "all"
)

// Newline styles.
const (
	NewlineStyleLF   = "lf"
	NewlineStyleCRLF = "crlf"
)

var (
	// ErrConflictingSkip is returned when plain and once skips target the same end.
	ErrConflictingSkip = errors.New("conflicting skip options")
	// ErrInvalidValue is returned for out-of-range or unknown option values.
	ErrInvalidValue = errors.New("invalid option value")
)

// Arguments holds the configuration options for one merge run.
type Arguments struct {
	Inputs       []string `toml:"inputs" yaml:"inputs"`                 // Files to merge, in order.
	Output       string   `toml:"output" yaml:"output"`                 // Destination file; stdout when empty.
	SkipHead     *int64   `toml:"skip_head" yaml:"skip_head"`           // Skip from the head of every file.
	SkipTail     *int64   `toml:"skip_tail" yaml:"skip_tail"`           // Skip from the tail of every file.
	SkipHeadOnce *int64   `toml:"skip_head_once" yaml:"skip_head_once"` // Head skip sparing the first file.
	SkipTailOnce *int64   `toml:"skip_tail_once" yaml:"skip_tail_once"` // Tail skip sparing the last file.
	HeadOnce     bool     `toml:"headonce" yaml:"headonce"`             // Shorthand for SkipHeadOnce = 1 line.
	TailOnce     bool     `toml:"tailonce" yaml:"tailonce"`             // Shorthand for SkipTailOnce = 1 line.
	SkipMode     string   `toml:"skip_mode" yaml:"skip_mode"`           // "lines" or "bytes".
	Padding      *string  `toml:"padding" yaml:"padding"`               // Literal padding bytes.
	PadMode      string   `toml:"pad_mode" yaml:"pad_mode"`             // beforestart, afterend, between or all.
	Newline      bool     `toml:"newline" yaml:"newline"`               // Force a trailing newline per file.
	NewlineStyle string   `toml:"newline_style" yaml:"newline_style"`   // "lf" or "crlf".
	ChunkSize    int      `toml:"chunk_size" yaml:"chunk_size"`         // Bytes read per seek step.
	Debug        bool     `toml:"debug" yaml:"debug"`                   // Development logging.
}

// Default returns the settings used when nothing else is configured.
func Default() *Arguments {
	return &Arguments{
		SkipMode:     SkipModeLines,
		PadMode:      PadModeBetween,
		NewlineStyle: NewlineStyleLF,
		ChunkSize:    seeker.DefaultChunkSize,
	}
}

// Load builds Arguments from defaults, the profile at path (skipped when path
// is empty) and environment overrides, in that order of precedence.
func Load(path string) (*Arguments, error) {
	args := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := decode(path, data, args); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := args.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return args, nil
}

func decode(path string, data []byte, args *Arguments) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), args)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
		return nil
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(args); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
	return fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
}

// applyEnvOverrides applies ADMERGE_* variables (Env > file > default).
func (a *Arguments) applyEnvOverrides() error {
	if v := os.Getenv("ADMERGE_SKIP_MODE"); v != "" {
		a.SkipMode = v
	}
	if v := os.Getenv("ADMERGE_PAD_MODE"); v != "" {
		a.PadMode = v
	}
	if v, ok := os.LookupEnv("ADMERGE_PADDING"); ok {
		a.Padding = &v
	}
	if v := os.Getenv("ADMERGE_NEWLINE_STYLE"); v != "" {
		a.NewlineStyle = v
	}
	if v := os.Getenv("ADMERGE_CHUNK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ADMERGE_CHUNK_SIZE=%q: %v", ErrInvalidValue, v, err)
		}
		a.ChunkSize = n
	}
	return nil
}

// Validate checks enum values, counts and the exclusivity of plain and once
// skips on each end.
func (a *Arguments) Validate() error {
	switch a.SkipMode {
	case SkipModeLines, SkipModeBytes:
	default:
		return fmt.Errorf("%w: skip mode %q (want lines or bytes)", ErrInvalidValue, a.SkipMode)
	}
	switch a.PadMode {
	case PadModeBeforeStart, PadModeAfterEnd, PadModeBetween, PadModeAll:
	default:
		return fmt.Errorf("%w: pad mode %q (want beforestart, afterend, between or all)", ErrInvalidValue, a.PadMode)
	}
	switch a.NewlineStyle {
	case NewlineStyleLF, NewlineStyleCRLF:
	default:
		return fmt.Errorf("%w: newline style %q (want lf or crlf)", ErrInvalidValue, a.NewlineStyle)
	}
	if a.ChunkSize < 0 || a.ChunkSize > seeker.MaxChunkSize {
		return fmt.Errorf("%w: chunk size %d (want 0 to %d)", ErrInvalidValue, a.ChunkSize, seeker.MaxChunkSize)
	}

	for _, c := range []struct {
		name string
		v    *int64
	}{
		{"skip-head", a.SkipHead},
		{"skip-tail", a.SkipTail},
		{"skip-head-once", a.SkipHeadOnce},
		{"skip-tail-once", a.SkipTailOnce},
	} {
		if c.v != nil && *c.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidValue, c.name, *c.v)
		}
	}

	if err := exclusive("head", a.SkipHead != nil, a.SkipHeadOnce != nil, a.HeadOnce); err != nil {
		return err
	}
	if err := exclusive("tail", a.SkipTail != nil, a.SkipTailOnce != nil, a.TailOnce); err != nil {
		return err
	}
	if a.SkipMode == SkipModeBytes && (a.HeadOnce || a.TailOnce) {
		return fmt.Errorf("%w: --headonce and --tailonce count lines, not bytes", ErrConflictingSkip)
	}
	return nil
}

func exclusive(end string, plain, once, shorthand bool) error {
	n := 0
	for _, set := range []bool{plain, once, shorthand} {
		if set {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("%w: only one of --skip-%s, --skip-%s-once and --%sonce may be given", ErrConflictingSkip, end, end, end)
	}
	return nil
}

// Options validates a and converts it into merge options.
func (a *Arguments) Options() (merge.Options, error) {
	if err := a.Validate(); err != nil {
		return merge.Options{}, err
	}

	plain, once := merge.Lines, merge.LinesOnce
	if a.SkipMode == SkipModeBytes {
		plain, once = merge.Bytes, merge.BytesOnce
	}
	pick := func(p, o *int64, shorthand bool) merge.Skip {
		switch {
		case p != nil:
			return plain(*p)
		case o != nil:
			return once(*o)
		case shorthand:
			return merge.LinesOnce(1)
		}
		return merge.Skip{}
	}

	opts := merge.Options{
		SkipHead:  pick(a.SkipHead, a.SkipHeadOnce, a.HeadOnce),
		SkipTail:  pick(a.SkipTail, a.SkipTailOnce, a.TailOnce),
		ChunkSize: a.ChunkSize,
	}

	if a.Padding != nil {
		p := []byte(*a.Padding)
		switch a.PadMode {
		case PadModeBeforeStart:
			opts.Pad = merge.PadBefore(p)
		case PadModeAfterEnd:
			opts.Pad = merge.PadAfter(p)
		case PadModeBetween:
			opts.Pad = merge.PadBetween(p)
		case PadModeAll:
			opts.Pad = merge.PadCustom(p, p, p)
		}
	}

	if a.Newline {
		opts.Newline = merge.NewlineLF
		if a.NewlineStyle == NewlineStyleCRLF {
			opts.Newline = merge.NewlineCRLF
		}
	}
	return opts, nil
}
