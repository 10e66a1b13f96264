package cmd

import (
	"admerge/pkg/config"
	"admerge/pkg/logging"
	"admerge/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootFlags holds raw flag values. Only flags the user actually set are
// copied onto the loaded configuration.
type rootFlags struct {
	configPath   string
	inputs       []string
	output       string
	skipHead     int64
	skipTail     int64
	skipHeadOnce int64
	skipTailOnce int64
	headOnce     bool
	tailOnce     bool
	skipMode     string
	padding      string
	padMode      string
	newline      bool
	newlineStyle string
	chunkSize    int
	debug        bool
}

// NewRootCmd builds the admerge command tree. logger is used for merge
// diagnostics unless debug logging is requested, which swaps in a
// development logger.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &rootFlags{}

	root := &cobra.Command{
		Use:   "admerge [flags] [FILE...]",
		Short: "admerge merges files, trimming lines or bytes at their edges",
		Long: `admerge concatenates files in order into one output. Each file can lose
lines or bytes from its head or tail, padding can be placed around files and
every file can be forced to end with a newline.

Files are taken from --input and positional arguments, or read as a path list
from stdin when neither is given.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			args, err := config.Load(f.configPath)
			if err != nil {
				return usage(err)
			}
			f.apply(cmd, args)
			args.Inputs = append(args.Inputs, positional...)

			if args.Debug {
				if err := logging.Setup(true, "admerge", version.Get("admerge").Version); err != nil {
					return err
				}
				logger = logging.Logger
			}

			logger.Debug("Resolved arguments", zap.Any("args", args))
			return executeMerge(args, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage(err)
	})

	flags := root.Flags()
	flags.StringArrayVarP(&f.inputs, "input", "i", nil, "Input file (repeatable; positional arguments are appended)")
	flags.StringVarP(&f.output, "output", "o", "", "Output file (default stdout)")
	flags.Int64VarP(&f.skipHead, "skip-head", "s", 0, "Skip N units from the head of every file")
	flags.Int64VarP(&f.skipTail, "skip-tail", "e", 0, "Skip N units from the tail of every file")
	flags.Int64VarP(&f.skipHeadOnce, "skip-head-once", "S", 0, "Skip N units from the head of every file but the first")
	flags.Int64VarP(&f.skipTailOnce, "skip-tail-once", "E", 0, "Skip N units from the tail of every file but the last")
	flags.BoolVarP(&f.headOnce, "headonce", "H", false, "Same as --skip-head-once 1 in lines")
	flags.BoolVarP(&f.tailOnce, "tailonce", "T", false, "Same as --skip-tail-once 1 in lines")
	flags.StringVarP(&f.skipMode, "skip-mode", "m", config.SkipModeLines, "Skip unit: lines or bytes")
	flags.StringVarP(&f.padding, "padding", "p", "", "Literal padding inserted around files")
	flags.StringVarP(&f.padMode, "pad-mode", "P", config.PadModeBetween, "Padding placement: beforestart, afterend, between or all")
	flags.BoolVarP(&f.newline, "newline", "n", false, "Ensure every file ends with a newline")
	flags.StringVarP(&f.newlineStyle, "newline-style", "N", config.NewlineStyleLF, "Newline appended by --newline: lf or crlf")
	flags.IntVar(&f.chunkSize, "chunk-size", 0, "Bytes read per step while searching for line breaks (default 4096)")
	flags.StringVar(&f.configPath, "config", "", "TOML or YAML profile with default settings")
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "Enable development logging")

	root.AddCommand(newVersionCmd())
	return root
}

// apply copies explicitly set flags onto args.
func (f *rootFlags) apply(cmd *cobra.Command, args *config.Arguments) {
	changed := cmd.Flags().Changed
	if changed("input") {
		args.Inputs = append([]string(nil), f.inputs...)
	}
	if changed("output") {
		args.Output = f.output
	}
	// A skip flag replaces every profile skip on the same end; only flags
	// given together can conflict.
	if changed("skip-head") || changed("skip-head-once") || changed("headonce") {
		args.SkipHead, args.SkipHeadOnce, args.HeadOnce = nil, nil, false
	}
	if changed("skip-tail") || changed("skip-tail-once") || changed("tailonce") {
		args.SkipTail, args.SkipTailOnce, args.TailOnce = nil, nil, false
	}
	if changed("skip-head") {
		args.SkipHead = &f.skipHead
	}
	if changed("skip-tail") {
		args.SkipTail = &f.skipTail
	}
	if changed("skip-head-once") {
		args.SkipHeadOnce = &f.skipHeadOnce
	}
	if changed("skip-tail-once") {
		args.SkipTailOnce = &f.skipTailOnce
	}
	if changed("headonce") {
		args.HeadOnce = f.headOnce
	}
	if changed("tailonce") {
		args.TailOnce = f.tailOnce
	}
	if changed("skip-mode") {
		args.SkipMode = f.skipMode
	}
	if changed("padding") {
		args.Padding = &f.padding
	}
	if changed("pad-mode") {
		args.PadMode = f.padMode
	}
	if changed("newline") {
		args.Newline = f.newline
	}
	if changed("newline-style") {
		args.NewlineStyle = f.newlineStyle
	}
	if changed("chunk-size") {
		args.ChunkSize = f.chunkSize
	}
	if changed("debug") {
		args.Debug = f.debug
	}
}

// Execute runs the root command against the process arguments.
func Execute(logger *zap.Logger) error {
	return NewRootCmd(logger).Execute()
}
