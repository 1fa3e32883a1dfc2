package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/amirbrooks/sid/internal/command"
	"github.com/amirbrooks/sid/internal/config"
	"github.com/amirbrooks/sid/internal/logging"
	"github.com/amirbrooks/sid/internal/store"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitConflict = 4
	ExitInternal = 10
)

func Run(args []string) int {
	return RunWith(context.Background(), args, os.Stdin, os.Stdout, os.Stderr)
}

// RunWith runs the sid application against the given streams and returns the exit code.
func RunWith(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	app := buildApp(in, out, errOut)
	err := app.RunContext(ctx, append([]string{"sid"}, args...))
	return exitCode(err, errOut)
}

func buildApp(in io.Reader, out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "sid",
		Usage:           "a personal task assistant",
		Reader:          in,
		Writer:          out,
		ErrWriter:       errOut,
		HideHelpCommand: true,
		// Exit codes are mapped by RunWith; the default handler would call os.Exit.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML or TOML config file", EnvVars: []string{config.EnvConfig}},
			&cli.StringFlag{Name: "data", Usage: "task file (default " + store.DefaultPath + ")"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-file", Usage: "write diagnostics here instead of stderr"},
			&cli.BoolFlag{Name: "reject-past", Usage: "refuse deadlines and events that start in the past"},
			&cli.BoolFlag{Name: "plain", Usage: "print responses without the frame"},
		},
		Action: runConsole,
		Commands: []*cli.Command{
			{
				Name:            "exec",
				Usage:           "run one command and exit",
				ArgsUsage:       "<command words...>",
				SkipFlagParsing: true,
				Action:          runExec,
			},
			{
				Name:  "config",
				Usage: "inspect configuration",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "print the effective configuration",
						Action: runConfigShow,
					},
				},
			},
		},
	}
}

func runConsole(c *cli.Context) error {
	if c.Args().Present() {
		return cli.Exit(fmt.Sprintf("unknown command %q (try: sid exec %s)", c.Args().First(), strings.Join(c.Args().Slice(), " ")), ExitUsage)
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	var r Renderer = NewFrameRenderer(s.cfg.FrameWidth)
	if c.Bool("plain") {
		r = PlainRenderer{}
	}
	con := &Console{
		In:     c.App.Reader,
		Out:    c.App.Writer,
		Interp: s.interp,
		Render: r,
		Log:    s.log.Named("console"),
	}
	if err := con.Run(); err != nil {
		s.log.Error("console stopped", zap.Error(err))
		return cli.Exit("sid: "+err.Error(), ExitInternal)
	}
	return nil
}

func runExec(c *cli.Context) error {
	line := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if line == "" {
		return cli.Exit(command.HelpMessage, ExitUsage)
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.interp.Execute(line)
	if err != nil {
		if !command.IsUserError(err) {
			s.log.Error("exec failed", zap.Error(err))
		}
		return cli.Exit(err.Error(), codeFor(err))
	}
	fmt.Fprintln(c.App.Writer, res.Message)
	return nil
}

func runConfigShow(c *cli.Context) error {
	cfg, err := effectiveConfig(c)
	if err != nil {
		return err
	}
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "(stderr)"
	}
	w := tabwriter.NewWriter(c.App.Writer, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintf(w, "data_file\t%s\n", cfg.DataFile)
	fmt.Fprintf(w, "reject_past_dates\t%s\n", strconv.FormatBool(cfg.RejectPastDates))
	fmt.Fprintf(w, "log_level\t%s\n", cfg.LogLevel)
	fmt.Fprintf(w, "log_file\t%s\n", logFile)
	fmt.Fprintf(w, "frame_width\t%d\n", cfg.FrameWidth)
	return w.Flush()
}

// effectiveConfig layers command-line flags over the config file and environment.
func effectiveConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, cli.Exit("sid: "+err.Error(), ExitUsage)
	}
	if c.IsSet("data") {
		cfg.DataFile = c.String("data")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.IsSet("reject-past") {
		cfg.RejectPastDates = c.Bool("reject-past")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, cli.Exit("sid: "+err.Error(), ExitUsage)
	}
	return cfg, nil
}

type session struct {
	cfg    config.Config
	log    *zap.Logger
	interp *command.Interpreter
}

func openSession(c *cli.Context) (*session, error) {
	cfg, err := effectiveConfig(c)
	if err != nil {
		return nil, err
	}
	log, err := logging.NewLogger(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Session: store.NewSessionID(),
	})
	if err != nil {
		return nil, cli.Exit("sid: logger: "+err.Error(), ExitInternal)
	}
	list, err := store.NewFileCodec(cfg.DataFile, log).Load()
	if err != nil {
		log.Error("load failed", zap.String("path", cfg.DataFile), zap.Error(err))
		_ = log.Sync()
		return nil, cli.Exit("sid: "+err.Error(), ExitInternal)
	}
	interp := command.New(list, log.Named("interpreter"))
	interp.RejectPast = cfg.RejectPastDates
	log.Debug("session opened", zap.String("data_file", cfg.DataFile), zap.Int("tasks", list.Size()))
	return &session{cfg: cfg, log: log, interp: interp}, nil
}

func (s *session) close() {
	_ = s.log.Sync()
}

// codeFor maps a command failure to an exit code.
func codeFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidIndex):
		return ExitNotFound
	case errors.Is(err, store.ErrConflict):
		return ExitConflict
	case command.IsUserError(err):
		return ExitUsage
	default:
		return ExitInternal
	}
}

// exitCode prints the message carried by err, if any, and returns the process exit code.
// Errors without a code come from flag parsing and count as usage errors.
func exitCode(err error, errOut io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			fmt.Fprintln(errOut, msg)
		}
		return ec.ExitCode()
	}
	fmt.Fprintln(errOut, "sid:", err)
	return ExitUsage
}
