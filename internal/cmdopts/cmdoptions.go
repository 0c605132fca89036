package cmdopts

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cybertec-postgresql/slowwatch/internal/db"
	"github.com/cybertec-postgresql/slowwatch/internal/log"
	"github.com/cybertec-postgresql/slowwatch/internal/logparse"
	"github.com/cybertec-postgresql/slowwatch/internal/sinks"
	flags "github.com/jessevdk/go-flags"
)

const (
	ExitCodeOK int32 = iota
	ExitCodeConfigError
	ExitCodeUserCancel
	ExitCodeFatalError
)

// Options contains the command line options.
type Options struct {
	Source  logparse.CmdOpts `group:"Source"`
	Sinks   sinks.CmdOpts    `group:"Sinks"`
	Logging log.CmdOpts      `group:"Logging"`
	Help    bool

	SinksWriter sinks.Writer

	OutputWriter io.Writer
}

// New returns a new instance of Options parsed from the command line.
// Function prints help message only if options are incorrect.
func New(writer io.Writer) (cmdOpts *Options, err error) {
	cmdOpts = new(Options)
	parser := flags.NewParser(cmdOpts, flags.HelpFlag)
	cmdOpts.OutputWriter = writer
	nonParsedArgs, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			cmdOpts.Help = true
		}
		if !flags.WroteHelp(err) {
			parser.WriteHelp(writer)
		}
		return cmdOpts, err
	}
	if len(nonParsedArgs) > 0 { // we don't expect any non-parsed arguments
		return cmdOpts, fmt.Errorf("unknown argument(s): %v", nonParsedArgs)
	}
	err = cmdOpts.ValidateConfig()
	return
}

// Verbose returns true if the debug log is enabled
func (c *Options) Verbose() bool {
	return c.Logging.LogLevel == "debug"
}

// ValidateConfig checks if the configuration is valid.
func (c *Options) ValidateConfig() error {
	var err error
	if c.Source.LogFile == "" && c.Source.Discover == "" {
		err = errors.Join(err, errors.New("one of --log or --discover must be specified"))
	}
	if c.Sinks.MetricsPath == "" {
		err = errors.Join(err, errors.New("--metrics is required"))
	}
	if c.Source.ThresholdMs < 0 {
		err = errors.Join(err, errors.New("--threshold-ms must be >= 0"))
	}
	if c.Source.PollInterval <= 0 {
		err = errors.Join(err, errors.New("--poll-interval must be positive"))
	}
	if c.Sinks.PublishInterval <= 0 {
		err = errors.Join(err, errors.New("--publish-interval must be positive"))
	}
	return err
}

// InitSinkWriter creates the configured sinks.
func (c *Options) InitSinkWriter(ctx context.Context) (err error) {
	c.SinksWriter, err = sinks.NewSinkWriter(ctx, &c.Sinks)
	return
}

// DiscoverLogPath asks the monitored database for the active server log
// when no --log was given explicitly.
func (c *Options) DiscoverLogPath(ctx context.Context) (err error) {
	if c.Source.LogFile > "" {
		return nil
	}
	conn, err := db.Connect(ctx, c.Source.Discover)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(ctx) }()
	c.Source.LogFile, err = logparse.DiscoverLogFile(ctx, conn)
	return
}
