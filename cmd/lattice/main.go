package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/phanxgames/lattice"
	"github.com/phanxgames/lattice/internal/config"
)

// appEnv carries what Before prepared to the subcommands.
type appEnv struct {
	cfg   *config.Config
	log   *zap.Logger
	debug bool
}

type envKey struct{}

func envFromContext(ctx context.Context) *appEnv {
	if env, ok := ctx.Value(envKey{}).(*appEnv); ok {
		return env
	}
	return &appEnv{log: zap.NewNop()}
}

// initializeAppContext loads configuration and logging after the command line
// has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := &appEnv{debug: cmd.Bool("debug")}

	var err error
	configFile := cmd.String("config")
	if env.cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if env.log, err = env.cfg.Logging.Prepare(env.debug); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	lattice.SetLogger(env.log)

	env.log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.log.Debug("Using defaults (no configuration file)")
	}
	return context.WithValue(ctx, envKey{}, env), nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	env := envFromContext(ctx)
	env.log.Debug("Program ended")
	// stderr cannot be synced on most terminals
	_ = env.log.Sync()
	lattice.SetLogger(nil)
	return nil
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)
	if env.cfg != nil {
		env.log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "lattice",
		Usage:           "animated widget board built on the lattice scene graph",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log at debug level and enable scene debug checks"},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Opens the board window",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "script", Aliases: []string{"s"}, Usage: "replay steps from `FILE` (YAML) and quit when a step says so"},
				},
				OnUsageError: usageErrorHandler,
				Action:       runBoard,
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func runBoard(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	b, err := newBoard(env.cfg, env.log)
	if err != nil {
		return fmt.Errorf("unable to build board: %w", err)
	}
	if path := cmd.String("script"); len(path) > 0 {
		if b.script, err = loadScript(path); err != nil {
			return err
		}
		env.log.Info("Replaying script", zap.String("file", path), zap.Int("steps", len(b.script.steps)))
	}
	b.scene.SetDebugMode(env.debug)

	go func() {
		<-ctx.Done()
		b.scene.Quit()
	}()

	w := env.cfg.Window
	env.log.Info("Opening window", zap.String("title", w.Title), zap.Int("width", w.Width), zap.Int("height", w.Height))
	return lattice.Run(b.scene, lattice.RunConfig{
		Title:     w.Title,
		Width:     w.Width,
		Height:    w.Height,
		Resizable: w.Resizable,
	})
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data = config.Prepare()
	} else {
		state = "actual"
		if data, err = config.Dump(env.cfg); err != nil {
			return fmt.Errorf("unable to get configuration: %w", err)
		}
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
