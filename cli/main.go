package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwantia/vinyl/cmd"
	"github.com/mwantia/vinyl/cmd/builtin"
	"github.com/mwantia/vinyl/log"
	"github.com/mwantia/vinyl/sink"
	"github.com/mwantia/vinyl/sink/consul"
	"github.com/mwantia/vinyl/sink/postgres"
	"github.com/mwantia/vinyl/sink/s3"
)

// registerRemoteSinks adds the sinks that need a server to talk to.
// Their connection settings are read from the environment.
func registerRemoteSinks(env *cmd.Environment) {
	env.RegisterSink("postgres", func(target string, logger *log.Logger) (sink.Sink, error) {
		if target == "" {
			target = os.Getenv("VINYL_POSTGRES_URL")
		}
		return postgres.NewPostgresSink(target, postgres.WithLogger(logger))
	})

	env.RegisterSink("consul", func(target string, logger *log.Logger) (sink.Sink, error) {
		return consul.NewConsulSink(&consul.ConsulSinkConfig{
			Address: os.Getenv("VINYL_CONSUL_ADDR"),
			Token:   os.Getenv("VINYL_CONSUL_TOKEN"),
			Prefix:  target,
			Logger:  logger,
		})
	})

	env.RegisterSink("s3", func(target string, logger *log.Logger) (sink.Sink, error) {
		return s3.NewS3Sink(
			os.Getenv("VINYL_S3_ENDPOINT"),
			target,
			os.Getenv("VINYL_S3_ACCESS_KEY"),
			os.Getenv("VINYL_S3_SECRET_KEY"),
			os.Getenv("VINYL_S3_SSL") == "true",
			s3.WithLogger(logger),
		)
	})
}

func main() {
	logger, err := log.FromEnv("vinyl")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := cmd.NewEnvironment(logger)
	registerRemoteSinks(env)

	registry := cmd.NewRegistry(builtin.Commands()...)
	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "-h" || os.Args[1] == "--help" {
		fmt.Fprintf(os.Stdout, "usage: vinyl <command> [flags] <path>...\n\ncommands:\n")
		registry.Help(os.Stdout)
		fmt.Fprintf(os.Stdout, "\nsinks: %v\n", env.Sinks())
		return
	}

	code, err := registry.Run(ctx, env, os.Args[1:], os.Stdout)
	if err != nil {
		logger.Error("%v", err)
	}

	stop()
	os.Exit(code)
}
