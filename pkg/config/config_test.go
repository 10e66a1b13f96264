package config

import (
	"os"
	"path/filepath"
	"testing"

	"admerge/pkg/merge"
	"admerge/pkg/seeker"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64    { return &v }
func stringp(v string) *string { return &v }

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	args := Default()

	assert.Equal(t, SkipModeLines, args.SkipMode)
	assert.Equal(t, PadModeBetween, args.PadMode)
	assert.Equal(t, NewlineStyleLF, args.NewlineStyle)
	assert.Equal(t, seeker.DefaultChunkSize, args.ChunkSize)
	require.NoError(t, args.Validate())

	opts, err := args.Options()
	require.NoError(t, err)
	assert.Equal(t, merge.Options{ChunkSize: seeker.DefaultChunkSize}, opts)
}

func TestLoadWithoutPath(t *testing.T) {
	args, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), args)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "profile.toml", `
inputs = ["a.csv", "b.csv"]
skip_head_once = 1
skip_mode = "lines"
padding = "---\n"
pad_mode = "all"
newline = true
newline_style = "crlf"
chunk_size = 512
`)

	args, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Inputs = []string{"a.csv", "b.csv"}
	want.SkipHeadOnce = int64p(1)
	want.Padding = stringp("---\n")
	want.PadMode = PadModeAll
	want.Newline = true
	want.NewlineStyle = NewlineStyleCRLF
	want.ChunkSize = 512
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "profile.yml", `
skip_tail: 2
skip_mode: bytes
pad_mode: beforestart
padding: "# merged\n"
`)

	args, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64p(2), args.SkipTail)
	assert.Equal(t, SkipModeBytes, args.SkipMode)
	assert.Equal(t, PadModeBeforeStart, args.PadMode)

	opts, err := args.Options()
	require.NoError(t, err)
	assert.Equal(t, merge.Bytes(2), opts.SkipTail)
	assert.Equal(t, merge.PadBefore([]byte("# merged\n")), opts.Pad)
}

func TestLoadEmptyYAML(t *testing.T) {
	args, err := Load(writeConfig(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), args)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "bad.toml", "skip_heads = 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skip_heads")

	_, err = Load(writeConfig(t, "bad.yaml", "skip_heads: 1\n"))
	require.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "profile.json", "{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")

	_, err = Load(writeConfig(t, "broken.toml", "skip_head = "))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "profile.toml", `pad_mode = "between"`+"\n")

	t.Run("env beats file", func(t *testing.T) {
		t.Setenv("ADMERGE_PAD_MODE", "afterend")
		t.Setenv("ADMERGE_SKIP_MODE", "bytes")
		t.Setenv("ADMERGE_NEWLINE_STYLE", "crlf")
		t.Setenv("ADMERGE_CHUNK_SIZE", "64")
		t.Setenv("ADMERGE_PADDING", "")

		args, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, PadModeAfterEnd, args.PadMode)
		assert.Equal(t, SkipModeBytes, args.SkipMode)
		assert.Equal(t, NewlineStyleCRLF, args.NewlineStyle)
		assert.Equal(t, 64, args.ChunkSize)
		assert.Equal(t, stringp(""), args.Padding)
	})

	t.Run("bad chunk size", func(t *testing.T) {
		t.Setenv("ADMERGE_CHUNK_SIZE", "lots")

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Arguments)
		want   error
	}{
		{"unknown skip mode", func(a *Arguments) { a.SkipMode = "words" }, ErrInvalidValue},
		{"unknown pad mode", func(a *Arguments) { a.PadMode = "around" }, ErrInvalidValue},
		{"unknown newline style", func(a *Arguments) { a.NewlineStyle = "cr" }, ErrInvalidValue},
		{"negative chunk size", func(a *Arguments) { a.ChunkSize = -1 }, ErrInvalidValue},
		{"oversized chunk size", func(a *Arguments) { a.ChunkSize = seeker.MaxChunkSize + 1 }, ErrInvalidValue},
		{"largest chunk size", func(a *Arguments) { a.ChunkSize = seeker.MaxChunkSize }, nil},
		{"negative skip", func(a *Arguments) { a.SkipTailOnce = int64p(-2) }, ErrInvalidValue},
		{"head plain and once", func(a *Arguments) { a.SkipHead, a.SkipHeadOnce = int64p(1), int64p(1) }, ErrConflictingSkip},
		{"head plain and shorthand", func(a *Arguments) { a.SkipHead, a.HeadOnce = int64p(1), true }, ErrConflictingSkip},
		{"head once and shorthand", func(a *Arguments) { a.SkipHeadOnce, a.HeadOnce = int64p(1), true }, ErrConflictingSkip},
		{"tail plain and once", func(a *Arguments) { a.SkipTail, a.SkipTailOnce = int64p(1), int64p(1) }, ErrConflictingSkip},
		{"tail plain and shorthand", func(a *Arguments) { a.SkipTail, a.TailOnce = int64p(1), true }, ErrConflictingSkip},
		{"tail once and shorthand", func(a *Arguments) { a.SkipTailOnce, a.TailOnce = int64p(1), true }, ErrConflictingSkip},
		{"shorthand in bytes mode", func(a *Arguments) { a.SkipMode, a.HeadOnce = SkipModeBytes, true }, ErrConflictingSkip},
		{"head and tail together", func(a *Arguments) { a.SkipHead, a.SkipTailOnce = int64p(1), int64p(1) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Default()
			tt.mutate(args)

			err := args.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)

			_, err = args.Options()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOptions(t *testing.T) {
	pad := []byte(" padding ")

	tests := []struct {
		name   string
		mutate func(*Arguments)
		want   merge.Options
	}{
		{
			name:   "lines",
			mutate: func(a *Arguments) { a.SkipHead, a.SkipTail = int64p(1), int64p(2) },
			want:   merge.Options{SkipHead: merge.Lines(1), SkipTail: merge.Lines(2)},
		},
		{
			name:   "lines once",
			mutate: func(a *Arguments) { a.SkipHeadOnce, a.SkipTailOnce = int64p(3), int64p(4) },
			want:   merge.Options{SkipHead: merge.LinesOnce(3), SkipTail: merge.LinesOnce(4)},
		},
		{
			name:   "shorthands",
			mutate: func(a *Arguments) { a.HeadOnce, a.TailOnce = true, true },
			want:   merge.Options{SkipHead: merge.LinesOnce(1), SkipTail: merge.LinesOnce(1)},
		},
		{
			name: "bytes",
			mutate: func(a *Arguments) {
				a.SkipMode = SkipModeBytes
				a.SkipHead, a.SkipTailOnce = int64p(8), int64p(4)
			},
			want: merge.Options{SkipHead: merge.Bytes(8), SkipTail: merge.BytesOnce(4)},
		},
		{
			name:   "pad between by default",
			mutate: func(a *Arguments) { a.Padding = stringp(" padding ") },
			want:   merge.Options{Pad: merge.PadBetween(pad)},
		},
		{
			name:   "pad after end",
			mutate: func(a *Arguments) { a.Padding, a.PadMode = stringp(" padding "), PadModeAfterEnd },
			want:   merge.Options{Pad: merge.PadAfter(pad)},
		},
		{
			name:   "pad all",
			mutate: func(a *Arguments) { a.Padding, a.PadMode = stringp(" padding "), PadModeAll },
			want:   merge.Options{Pad: merge.PadCustom(pad, pad, pad)},
		},
		{
			name:   "pad mode without padding",
			mutate: func(a *Arguments) { a.PadMode = PadModeAll },
			want:   merge.Options{},
		},
		{
			name:   "newline lf",
			mutate: func(a *Arguments) { a.Newline = true },
			want:   merge.Options{Newline: merge.NewlineLF},
		},
		{
			name:   "newline crlf",
			mutate: func(a *Arguments) { a.Newline, a.NewlineStyle = true, NewlineStyleCRLF },
			want:   merge.Options{Newline: merge.NewlineCRLF},
		},
		{
			name:   "newline style without newline",
			mutate: func(a *Arguments) { a.NewlineStyle = NewlineStyleCRLF },
			want:   merge.Options{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Default()
			args.ChunkSize = 0
			tt.mutate(args)

			got, err := args.Options()
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
