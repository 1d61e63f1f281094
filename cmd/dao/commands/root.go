// Package commands provides the root command of the dao CLI.
//
// Operation subcommands are not declared here: they are generated from the
// operation table by the registry. This package owns the root command, its
// help text and the global flags shared by every operation.
package commands

import (
	"github.com/concave-dev/dao/cmd/dao/config"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the root command bound to opts.
func NewRootCmd(opts *config.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dao",
		Short: "CLI for the DAO datacenter automation master",
		Long: `dao is the operator command-line client for the DAO master.

Each subcommand makes a single call to the master for the current location
and prints the result. The location is taken from --location, the
environment variable named in the client config (DAO_LOCATION by default),
or the config file.`,
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # List racks with network details
  dao --location phx2 rack-list --detailed

  # Show only serial numbers and PXE addresses of servers
  dao server-list --rack PHX2-A1 --filter asset.serial,pxe_ip

  # Start validation of every unmanaged server in a rack
  dao rack-trigger PHX2-A1 --status S0 --set-target-status S1

  # Machine readable output
  dao --format json worker-list`,
	}

	SetupGlobalFlags(cmd, opts)
	return cmd
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(cmd *cobra.Command, opts *config.Options) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Format, "format", config.DefaultFormat,
		"Output format: print, json")
	flags.StringVar(&opts.Filter, "filter", "",
		"Filter the result fields. Comma separated. An example: asset.serial,pxe_ip")
	flags.BoolVar(&opts.Debug, "debug", false,
		"Provide an extended error output")
	flags.StringVar(&opts.Location, "location", "",
		"Location. Can be set in the client config or its location variable")
	flags.StringVar(&opts.MasterURL, "master", "",
		"Master URL (overrides client.master_url)")
	flags.StringVar(&opts.ConfigPath, "config", config.DefaultConfigPath,
		"Client config file")
	flags.IntVar(&opts.Timeout, "timeout", 0,
		"Request timeout in seconds (0 uses the config file value)")
	flags.StringVar(&opts.LogLevel, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
}
