package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/compico/mirlib/command"
	"github.com/compico/mirlib/internal/config"
	"github.com/compico/mirlib/internal/metrics"
	"github.com/compico/mirlib/radio"
	"github.com/compico/mirlib/server"

	"github.com/prometheus/client_golang/prometheus"
)

type serverFlags struct {
	listen     string
	selfAddr   uint16
	generation string
	fixtures   string
	logLevel   string
	logFormat  string
}

func newServerCmd() *cobra.Command {
	flags := &serverFlags{}

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve sample meter fixtures to clients",
		Long: `Listen on a TCP port and, for every incoming connection, dispatch
requests against a configured fixture set using server.Server.Poll.
Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(flags)
		},
	}
	registerServerFlags(cmd, flags)

	cmd.AddCommand(newServerPrintDefaultConfigCmd())
	cmd.AddCommand(newServerValidateConfigCmd())

	return cmd
}

func registerServerFlags(cmd *cobra.Command, flags *serverFlags) {
	cmd.Flags().StringVar(&flags.listen, "listen", ":9900", "Address to listen on (host:port)")
	cmd.Flags().Uint16Var(&flags.selfAddr, "self-addr", 1, "This server's own device address")
	cmd.Flags().StringVar(&flags.generation, "generation", "new", "Device generation to answer as: old|transition|new")
	cmd.Flags().StringVar(&flags.fixtures, "fixtures", "", "YAML fixture file (default: built-in sample fixtures)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "json", "Log format (currently always JSON)")
}

func newServerPrintDefaultConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print-default-config",
		Short: "Print the built-in default fixture set as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.Marshal(config.Default())
			if err != nil {
				return fmt.Errorf("marshal fixtures: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		},
	}
}

func newServerValidateConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Validate a fixture file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(path); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "fixtures OK: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "fixtures", "mirlib_fixtures.yaml", "Fixture file path")
	return cmd
}

func parseGeneration(s string) (command.Generation, error) {
	switch s {
	case "old":
		return command.GenerationOld, nil
	case "transition":
		return command.GenerationTransition, nil
	case "new":
		return command.GenerationNew, nil
	default:
		return command.GenerationUnknown, fmt.Errorf("unknown --generation %q: want old|transition|new", s)
	}
}

func runServer(flags *serverFlags) error {
	gen, err := parseGeneration(flags.generation)
	if err != nil {
		return err
	}

	log, err := newLogger("mirlibctl.server", flags.logLevel, flags.logFormat)
	if err != nil {
		return err
	}

	fixtures := config.Default()
	if flags.fixtures != "" {
		fixtures, err = config.Load(flags.fixtures)
		if err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", flags.listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", flags.listen, err)
	}
	defer ln.Close()

	log.Info().Str("addr", flags.listen).Msg("server listening")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	met := metrics.New(reg)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("server shutting down")
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		link := radio.NewTCPLink(conn)
		s := server.New(flags.selfAddr, gen, link, radio.SystemClock{},
			server.WithFixtures(fixtures),
			server.WithServerLogger(log),
			server.WithServerMetrics(met),
		)

		go func() {
			defer link.Close()
			if err := s.Run(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("connection closed")
			}
		}()
	}
}
