// Package cli implements bbbctl, a command-line front end to the
// conferencing server's administrative API.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/johnquangdev/bigbluebutton/pkg/bbb"
	"github.com/johnquangdev/bigbluebutton/pkg/config"
)

const (
	urlFlag      = "url"
	secretFlag   = "secret"
	checksumFlag = "checksum"
	verboseFlag  = "verbose"
)

// CommandOptions wires the command tree to its environment
type CommandOptions struct {
	Out  io.Writer
	Err  io.Writer
	Args []string

	// LoadConfig defaults to config.Load
	LoadConfig func() (*config.Config, error)
	// Logger, when set, replaces the logger built from config
	Logger *zap.Logger
	// ClientOptions are appended when the API client is built
	ClientOptions []bbb.Option
}

type rootFlags struct {
	URL      string
	Secret   string
	Checksum string
	Verbose  bool
}

// session is what every subcommand runs against once the root pre-run has
// resolved configuration.
type session struct {
	client *bbb.Client
	logger *zap.Logger
	out    io.Writer
}

// NewRootCommand builds the bbbctl command tree
func NewRootCommand(opts *CommandOptions) *cobra.Command {
	flags := &rootFlags{}
	s := &session{out: opts.Out}

	root := &cobra.Command{
		Use:               "bbbctl",
		Short:             "Manage meetings on a conferencing server",
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return s.init(c, opts, flags)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
	}
	root.SetArgs(opts.Args)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.URL, urlFlag, "", "Server base URL (overrides BBB_URL)")
	pf.StringVar(&flags.Secret, secretFlag, "", "Shared secret (overrides BBB_SECRET)")
	pf.StringVar(&flags.Checksum, checksumFlag, "", "Checksum algorithm: sha1 or sha256 (overrides BBB_CHECKSUM)")
	pf.BoolVarP(&flags.Verbose, verboseFlag, "v", false, "Log every API call")

	root.AddCommand(
		newCreateCommand(s),
		newJoinCommand(s),
		newRunningCommand(s),
		newEndCommand(s),
		newInfoCommand(s),
		newListCommand(s),
		newWaitCommand(s),
		newEndAllCommand(s),
	)
	return root
}

func (s *session) init(c *cobra.Command, opts *CommandOptions, flags *rootFlags) error {
	load := opts.LoadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load()
	if err != nil {
		return err
	}
	if flags.URL != "" {
		cfg.Server.URL = flags.URL
	}
	if flags.Secret != "" {
		cfg.Server.Secret = flags.Secret
	}
	if flags.Checksum != "" {
		cfg.Server.Checksum = flags.Checksum
	}
	if flags.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := opts.Logger
	if logger == nil {
		if logger, err = newLogger(cfg); err != nil {
			return err
		}
	}
	s.logger = logger

	clientOpts := []bbb.Option{
		bbb.WithLogger(logger),
		bbb.WithChecksumAlgorithm(bbb.ChecksumAlgorithm(cfg.Server.Checksum)),
	}
	s.client = bbb.NewClient(cfg.Server.URL, cfg.Server.Secret, append(clientOpts, opts.ClientOptions...)...)
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// print writes v as indented JSON
func (s *session) print(v interface{}) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *session) context(c *cobra.Command) context.Context {
	if ctx := c.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
