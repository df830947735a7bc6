// logtest exercises call-depth indentation and automatic entry/exit
// tracing end to end.
//
// Usage:
//
//	logtest [--log-file path] [--level debug] [--format text|json]
//	        [--console=false] [--infra-logging] [--no-trace]
//
// The run builds a SpecialWidget, reads and updates its status, calls
// DoSomething and square(5), closes the widget, and finally runs the
// logging shutdown. Output goes to stderr and to the log file, which is
// truncated first.
//
// Exit codes:
//
//	0: success
//	1: configuration or runtime error
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Station-Manager/logplus"
	"github.com/Station-Manager/logplus/cmd/logtest/internal/specimen"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

const defaultLogFile = "./logTest.log"

var log = logplus.PackageLogger()

func main() {
	os.Exit(run(os.Args))
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:  "logtest",
		Usage: "demonstrate indented and auto traced logging",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "log file, truncated before the run; empty disables file output",
				Value: defaultLogFile,
			},
			&cli.StringFlag{
				Name:  "level",
				Usage: "root level (trace, debug, info, warn, error)",
				Value: "debug",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "output format: text or json",
				Value: logplus.FormatText,
			},
			&cli.BoolFlag{
				Name:  "console",
				Usage: "log to stderr",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "infra-logging",
				Usage: "trace the logging packages themselves",
			},
			&cli.BoolFlag{
				Name:  "no-trace",
				Usage: "do not register the automatic entry/exit tracer",
			},
		},
		Action: runDemo,
		// run maps errors to exit codes; urfave/cli must not exit itself.
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(args []string) int {
	if err := createApp().Run(context.Background(), args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func configFromFlags(cmd *cli.Command) *logplus.Config {
	cfg := logplus.DefaultConfig()
	cfg.Level = cmd.String("level")
	cfg.Format = cmd.String("format")
	cfg.ConsoleLogging = cmd.Bool("console")
	cfg.FilePath = cmd.String("log-file")
	cfg.FileLogging = cfg.FilePath != ""
	cfg.InfrastructureLogging = cmd.Bool("infra-logging")
	cfg.AutoTrace = !cmd.Bool("no-trace")
	return cfg
}

func runDemo(_ context.Context, cmd *cli.Command) (err error) {
	shutdown := logplus.Setup()
	defer func() {
		err = errors.Join(err, shutdown.Run())
	}()

	cfg := configFromFlags(cmd)
	if cfg.FileLogging {
		if rmErr := os.Remove(cfg.FilePath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return fmt.Errorf("truncating %s: %w", cfg.FilePath, rmErr)
		}
	}
	if err := logplus.Configure(cfg); err != nil {
		return err
	}
	specimen.Logger().SetLevel(zerolog.DebugLevel)

	log.Debug("Start")

	w := specimen.NewSpecialWidget()
	_ = w.Status()
	w.SetStatus(4)
	w.DoSomething()
	square(5)
	return w.Close()
}

func square(x int) (y int) {
	defer logplus.Trace().Exit(&y)
	y = x * x
	log.Debug("%d ** 2 = %d", x, y)
	return y
}
