// Command telegraph loads a blueprint, drives the resulting state machine
// toward its goal and optionally serves the control API.
//
//	telegraph -blueprint machine.yaml          run until SIGINT or SIGTERM
//	telegraph -blueprint machine.yaml -dot     print the graph and exit
//
// Setting REDIS_URL also relays every state change to a Redis channel.
// Settings come from the environment and any .env files; see the Config
// types of the logger, statemachine and httpserver packages.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmitrymomot/telegraph/internal/controlapi"
	"github.com/dmitrymomot/telegraph/pkg/blueprint"
	"github.com/dmitrymomot/telegraph/pkg/config"
	"github.com/dmitrymomot/telegraph/pkg/httpserver"
	"github.com/dmitrymomot/telegraph/pkg/logger"
	"github.com/dmitrymomot/telegraph/pkg/redis"
	"github.com/dmitrymomot/telegraph/pkg/statemachine"
)

type appConfig struct {
	Blueprint string `env:"BLUEPRINT_PATH"`
	Control   bool   `env:"CONTROL_ENABLED" envDefault:"true"`
	AutoStart bool   `env:"FSM_AUTOSTART" envDefault:"true"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "telegraph:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("telegraph", flag.ContinueOnError)
	bpPath := fs.String("blueprint", "", "path to the YAML blueprint (overrides BLUEPRINT_PATH)")
	envFiles := fs.String("env", "", "comma-separated .env files, later files win")
	dot := fs.Bool("dot", false, "print the graph as Graphviz DOT and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *envFiles != "" {
		if err := config.LoadEnv(strings.Split(*envFiles, ",")...); err != nil {
			return err
		}
	}

	var (
		appCfg  appConfig
		logCfg  logger.Config
		fsmCfg  statemachine.Config
		httpCfg httpserver.Config
		rdsCfg  redis.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&fsmCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&rdsCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}
	if *bpPath != "" {
		appCfg.Blueprint = *bpPath
	}
	if appCfg.Blueprint == "" {
		return errors.New("no blueprint: set -blueprint or BLUEPRINT_PATH")
	}

	log, err := logger.NewFromConfig(logCfg,
		logger.WithOutput(stdout),
		logger.WithContextExtractors(controlapi.RequestIDExtractor()),
	)
	if err != nil {
		return err
	}

	bp, err := blueprint.Load(appCfg.Blueprint)
	if err != nil {
		return err
	}
	if bp.Name != "" {
		fsmCfg.Name = bp.Name
	}

	engine := statemachine.NewFromConfig(fsmCfg, statemachine.WithLogger(log))
	defer engine.Close()

	if err := bp.Apply(engine); err != nil {
		return err
	}

	if *dot {
		_, err := io.WriteString(stdout, engine.Snapshot().DOT())
		return err
	}

	changes, unsubscribe := engine.Subscribe(ctx)
	defer unsubscribe()
	go logChanges(ctx, log, changes)

	var checks []httpserver.Check
	if rdsCfg.Enabled() {
		client, err := redis.Connect(ctx, rdsCfg)
		if err != nil {
			return err
		}
		defer client.Close()

		relayed, stopRelay := engine.Subscribe(ctx)
		defer stopRelay()
		go redis.NewRelay(client, rdsCfg.Channel, engine.Name(), log).Run(ctx, relayed)
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		log.InfoContext(ctx, "relaying changes", slog.String("channel", rdsCfg.Channel))
	}

	if appCfg.AutoStart {
		checks = append(checks, controlapi.DriverCheck(engine))
		engine.Start()
	}
	log.InfoContext(ctx, "telegraph ready",
		logger.Machine(engine.Name()),
		logger.State(engine.CurrentState()),
		logger.Goal(engine.GoalState()),
		slog.Bool("driving", engine.IsRunning()),
	)

	if !appCfg.Control {
		<-ctx.Done()
		return nil
	}

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, controlapi.Router(engine, log, checks...))
}

func logChanges(ctx context.Context, log *slog.Logger, changes <-chan statemachine.Change) {
	for c := range changes {
		log.InfoContext(ctx, "state changed",
			logger.RunID(c.RunID),
			logger.Source(string(c.Source)),
			logger.Transition(c.Transition),
			logger.From(c.From),
			logger.To(c.To),
		)
	}
}
