// File: cmd/execute.go
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"admerge/pkg/config"
	"admerge/pkg/merge"

	"go.uber.org/zap"
)

// executeMerge runs one merge described by args. Paths come from args.Inputs,
// or from stdin when none were given. Output goes to args.Output, or to stdout.
func executeMerge(args *config.Arguments, stdin io.Reader, stdout io.Writer, logger *zap.Logger) (err error) {
	opts, err := args.Options()
	if err != nil {
		return err
	}

	paths := args.Inputs
	if len(paths) == 0 {
		if paths, err = readPaths(stdin); err != nil {
			return err
		}
		logger.Debug("Read path list from stdin", zap.Strings("paths", paths))
	}

	m, err := merge.New(opts, logger)
	if err != nil {
		return err
	}

	out := stdout
	if args.Output != "" {
		if err := checkOutputNotInput(args.Output, paths); err != nil {
			return err
		}
		if err := ensureDirectory(filepath.Dir(args.Output), logger); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, ferr := os.Create(args.Output)
		if ferr != nil {
			logger.Error("Failed to create output file", zap.String("path", args.Output), zap.Error(ferr))
			return fmt.Errorf("failed to create output file: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		out = f
	}

	n, err := m.MergePaths(out, paths)
	if err != nil {
		return err
	}

	dest := args.Output
	if dest == "" {
		dest = "<stdout>"
	}
	logger.Debug("Merge finished", zap.String("output", dest), zap.Int64("bytes", n))
	return nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}
