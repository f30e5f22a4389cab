package connect

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ValentinKolb/rsock/cmd/util"
	"github.com/ValentinKolb/rsock/lib/sock"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// ConnectCmd connects to a remote endpoint and pipes stdin/stdout
	// through the reactive socket
	ConnectCmd = &cobra.Command{
		Use:   "connect <address>",
		Short: "Connect to a remote endpoint and pipe stdin/stdout through it",
		Long:  `Connect to a remote TCP endpoint and pipe stdin/stdout through a reactive socket. The configuration can be set via command line flags or environment variables. The format of the environment variables is RSOCK_<flag> (e.g. RSOCK_TCP_NODELAY=false)`,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return util.BindCommandFlags(cmd)
		},
		RunE: run,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common socket flags
	util.SetupSocketFlags(ConnectCmd)

	key := "tls"
	ConnectCmd.PersistentFlags().Bool(key, false, util.WrapString("Wrap the raw transport stream with a TLS client"))

	key = "tls-insecure"
	ConnectCmd.PersistentFlags().Bool(key, false, util.WrapString("Skip TLS certificate verification (testing only)"))

	key = "connect-timeout"
	ConnectCmd.PersistentFlags().Int(key, 10, util.WrapString("The dial timeout in seconds (the socket itself imposes no timeouts)"))

	key = "stats"
	ConnectCmd.PersistentFlags().Bool(key, false, util.WrapString("Print rx/tx throughput statistics on exit"))
}

func run(_ *cobra.Command, args []string) error {
	address := args[0]

	if err := sock.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	// Build the client, optionally with a TLS stream transform. The
	// transform runs once per connection and its result is cached, so the
	// handshake state lives as long as the connection does.
	var opts []sock.ClientOption
	if viper.GetBool("tls") {
		host, _, err := net.SplitHostPort(address)
		if err != nil {
			return fmt.Errorf("invalid address %s: %v", address, err)
		}
		tlsConf := &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: viper.GetBool("tls-insecure"),
		}
		opts = append(opts, sock.WithStreamTransform(func(conn net.Conn) (net.Conn, error) {
			return tls.Client(conn, tlsConf), nil
		}))
	}

	client := sock.NewClient(address, util.GetSocketConfig(), opts...)
	defer client.Dispose()

	// The library has no intrinsic timeouts; the dial deadline is imposed
	// here via the context
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(viper.GetInt("connect-timeout"))*time.Second)
	defer cancel()

	remote, err := client.ConnectAsync(ctx).Await(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "connected to %s\n", remote)

	// Throughput meters
	rxMeter := gometrics.GetOrRegisterMeter("rx.bytes", gometrics.DefaultRegistry)
	txMeter := gometrics.GetOrRegisterMeter("tx.bytes", gometrics.DefaultRegistry)

	disconnectedCh, unsubscribe := client.Disconnected().Subscribe()
	defer unsubscribe()

	// Receiver -> stdout
	go func() {
		for chunk := range client.Receiver() {
			rxMeter.Mark(int64(len(chunk)))
			_, _ = os.Stdout.Write(chunk)
		}
	}()

	// stdin -> SendAsync
	stdinDone := make(chan struct{})
	go func() {
		defer close(stdinDone)
		buf := make([]byte, 4096)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				payload := make([]byte, n)
				copy(payload, buf[:n])
				if sendErr := client.SendAsync(payload).Err(); sendErr != nil {
					return
				}
				txMeter.Mark(int64(n))
			}
			if err != nil {
				return
			}
		}
	}()

	// Run until the peer disconnects or stdin is exhausted
	select {
	case <-disconnectedCh:
	case <-stdinDone:
	}

	if viper.GetBool("stats") {
		fmt.Fprintf(os.Stderr, "\nrx: %d bytes (%.1f B/s)\ntx: %d bytes (%.1f B/s)\n",
			rxMeter.Count(), rxMeter.RateMean(),
			txMeter.Count(), txMeter.RateMean())
	}

	return nil
}
