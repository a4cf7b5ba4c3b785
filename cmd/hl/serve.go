package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/signadot/hyperlambda/system/eventd/server"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "gops agent failed: %v\n", err)
		}
		defer agent.Close()
	}

	serverConfig := server.DefaultConfig()
	if cfg.ConfigFile != "" {
		serverConfig, err = server.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cfg.Addr != "" {
		serverConfig.Addr = cfg.Addr
	}
	if cfg.Startup != "" {
		serverConfig.Startup = cfg.Startup
	}
	if cfg.Storage != "" {
		serverConfig.Storage = cfg.Storage
	}
	if serverConfig.Addr == "" && !cfg.Stdio {
		return fmt.Errorf("%w: one of -addr or -stdio is required", cli.ErrUsage)
	}

	srv, err := server.New(&server.Spec{Config: serverConfig})
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Stdio {
		return srv.ServeStdio(ctx)
	}
	if err := srv.StartTCP(serverConfig.Addr); err != nil {
		return fmt.Errorf("failed to start TCP listener: %w", err)
	}
	defer srv.StopTCP()
	fmt.Fprintf(os.Stderr, "hl serving on %s\n", srv.TCPAddr())
	<-ctx.Done()
	return nil
}
