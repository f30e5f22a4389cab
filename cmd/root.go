package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/rsock/cmd/connect"
	"github.com/ValentinKolb/rsock/cmd/echo"
	"github.com/spf13/cobra"
)

const (
	Version = "0.2.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "rsock",
		Short: "reactive tcp socket toolkit",
		Long: fmt.Sprintf(`rsock (v%s)

A reactive wrapper around TCP connections: raw socket I/O exposed as
observable byte sequences with lifecycle events, thread-safe sends and
ordered delivery.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rsock",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rsock v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(connect.ConnectCmd)
	RootCmd.AddCommand(echo.EchoCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
