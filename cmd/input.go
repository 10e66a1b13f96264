package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var errNoInput = errors.New("no input files: pass --input or pipe a path list on stdin")

// stdinIsTerminal reports whether r is an interactive terminal, in which
// case there is no path list to read.
func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// readPaths reads a whitespace separated path list from r.
func readPaths(r io.Reader) ([]string, error) {
	if stdinIsTerminal(r) {
		return nil, usage(errNoInput)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read path list from stdin: %w", err)
	}
	paths := strings.FieldsFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\r' || r == '\t'
	})
	if len(paths) == 0 {
		return nil, usage(errNoInput)
	}
	return paths, nil
}

// checkOutputNotInput refuses to truncate a file that is also being read.
func checkOutputNotInput(output string, inputs []string) error {
	out, err := os.Stat(output)
	if err != nil {
		return nil
	}
	for _, in := range inputs {
		if fi, err := os.Stat(in); err == nil && os.SameFile(out, fi) {
			return usage(fmt.Errorf("output %s is also an input", output))
		}
	}
	return nil
}
