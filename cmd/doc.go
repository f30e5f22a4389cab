// Package cmd implements the command-line interface for the rsock reactive
// socket toolkit. It provides a small command hierarchy for exercising the
// library against real endpoints.
//
// The package is organized into several subpackages:
//
//   - connect: Interactive client piping stdin/stdout through a reactive socket
//   - echo: A loopback echo server for testing and demos
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See rsock -help for a list of all commands.
package cmd
