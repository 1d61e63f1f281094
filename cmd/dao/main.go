// Package main provides the entry point for the DAO CLI tool (dao).
//
// dao lets operators drive the DAO master (rack, server, network and cluster
// lifecycle) without knowing its RPC protocol. Every invocation makes one
// call to the master and prints the result.
//
// INITIALIZATION FLOW:
// 1. Identity check: the superuser is refused before anything else
// 2. Operation table registration and command surface generation
// 3. Global flag validation and logging setup
// 4. Config file, location and master resolution right before dispatch
// 5. Execution and exit code mapping
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/concave-dev/dao/cmd/dao/commands"
	"github.com/concave-dev/dao/cmd/dao/config"
	"github.com/concave-dev/dao/cmd/dao/handlers"
	"github.com/concave-dev/dao/cmd/dao/utils"
	"github.com/concave-dev/dao/internal/gateway"
	"github.com/concave-dev/dao/internal/identity"
	"github.com/concave-dev/dao/internal/logging"
	"github.com/spf13/cobra"
)

// main is the main entry point
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, identity.Current))
}

// run executes one dao invocation and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, whoami identity.Lookup) int {
	// stdout carries only command results.
	logging.SetWriters(stderr, stderr)
	logging.RestoreOutput()

	user, err := identity.Check(whoami)
	if errors.Is(err, identity.ErrSuperuser) {
		logging.Warn("You are trying to run dao using root account. Use your local user instead.")
		return 1
	}
	if err != nil {
		logging.Error("%v", err)
		return 1
	}

	reg, err := handlers.NewRegistry(handlers.Operations())
	if err != nil {
		logging.Error("%v", err)
		return 1
	}

	ctx := context.Background()
	opts := &config.Options{}
	rootCmd := commands.NewRootCmd(opts)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		utils.SetupLogging(opts)
		return config.ValidateGlobalFlags(opts)
	}

	newSession := func() (*handlers.Session, error) {
		explicit := rootCmd.PersistentFlags().Changed("config")
		return openSession(ctx, opts, explicit, user, stdout)
	}
	if err := reg.Build(rootCmd, newSession); err != nil {
		logging.Error("%v", err)
		return 1
	}

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return exitCode(rootCmd.ExecuteContext(ctx), stdout)
}

// openSession resolves configuration and connects the invocation to the
// master.
func openSession(ctx context.Context, opts *config.Options, configExplicit bool, user string, stdout io.Writer) (*handlers.Session, error) {
	file, err := config.LoadFile(opts.ConfigPath, configExplicit)
	if err != nil {
		return nil, err
	}

	settings, err := config.Resolve(opts, file, os.Getenv)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(gateway.Config{
		MasterURL: settings.MasterURL,
		Timeout:   settings.Timeout,
		UserAgent: fmt.Sprintf("dao/%s", config.Version),
		Logger:    utils.RestyLogger{},
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Using DAO master %s for location %s", gw.Endpoint(), settings.Location)
	inv := config.NewInvocation(opts, user, settings.Location)
	return handlers.NewSession(ctx, inv, gw, stdout), nil
}

// exitCode maps the outcome of a command to the process exit code. Master
// error bodies are shown verbatim. An unreachable master is reported but is
// not an error exit.
func exitCode(err error, stdout io.Writer) int {
	if err == nil {
		return 0
	}

	var rpcErr *gateway.RPCError
	if errors.As(err, &rpcErr) {
		fmt.Fprintln(stdout, rpcErr.Body)
		return 1
	}

	var timeoutErr *gateway.TimeoutError
	if errors.As(err, &timeoutErr) {
		logging.Error("%s", timeoutErr.Error())
		return 0
	}

	logging.Error("%v", err)
	return 1
}
