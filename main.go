package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"admerge/cmd"
	"admerge/pkg/logging"
	"admerge/pkg/version"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := logging.Setup(false, "admerge", version.Get("admerge").Version); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}
	logger := logging.Logger
	// --debug may replace logging.Logger during Execute.
	defer func() { syncLogger(logging.Logger) }()

	err := cmd.Execute(logger)
	code := cmd.ExitCode(err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "admerge: %v\n", err)
		logger.Debug("admerge execution failed", zap.Error(err), zap.Int("exitCode", code))
	}
	return code
}

// syncLogger flushes logger when stderr can actually be synced.
func syncLogger(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if syncErr := logger.Sync(); syncErr != nil {
		lowerErr := strings.ToLower(syncErr.Error())
		if !strings.Contains(lowerErr, "invalid argument") {
			log.Printf("Logger sync failed: %v", syncErr)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
