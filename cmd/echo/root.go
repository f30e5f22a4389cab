package echo

import (
	"fmt"
	"net"
	"net/http"

	"github.com/ValentinKolb/rsock/cmd/util"
	"github.com/ValentinKolb/rsock/lib/sock"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// EchoCmd starts a TCP echo server built on the reactive socket
	EchoCmd = &cobra.Command{
		Use:   "echo",
		Short: "Start a TCP echo server",
		Long:  `Start a TCP echo server that mirrors every received chunk back to the peer. Each accepted connection is wrapped in a reactive socket, so the server doubles as a live integration target for the connect command. The configuration can be set via command line flags or environment variables. The format of the environment variables is RSOCK_<flag> (e.g. RSOCK_LISTEN=0.0.0.0:7777)`,
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
	util.SetupSocketFlags(EchoCmd)

	key := "listen"
	EchoCmd.PersistentFlags().String(key, "127.0.0.1:7777", util.WrapString("The address to listen on"))

	key = "metrics-addr"
	EchoCmd.PersistentFlags().String(key, "", util.WrapString("If set, serve Prometheus metrics on this address under /metrics"))
}

func run(_ *cobra.Command, _ []string) error {
	if err := sock.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}
	conf := util.GetSocketConfig()

	ln, err := net.Listen("tcp", viper.GetString("listen"))
	if err != nil {
		return fmt.Errorf("failed to listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	// Optional metrics endpoint exposing the socket counters
	if metricsAddr := viper.GetString("metrics-addr"); metricsAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
			metrics.WritePrometheus(w, true)
		})
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				sock.Logger.Errorf("metrics endpoint failed: %v", err)
			}
		}()
		sock.Logger.Infof("serving metrics on %s/metrics", metricsAddr)
	}

	sock.Logger.Infof("echo server listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			return nil
		}
		go serveConn(conn, conf)
	}
}

// serveConn echoes every received chunk back until the peer disconnects
func serveConn(conn net.Conn, conf sock.Config) {
	s, err := sock.NewAccepted(conn, conf)
	if err != nil {
		sock.Logger.Warningf("failed to wrap connection from %s: %v", conn.RemoteAddr(), err)
		_ = conn.Close()
		return
	}

	// The Receiver only completes on dispose, so a disconnect (peer close
	// or send failure) must translate into one to end the range below
	disconnectedCh, unsubscribe := s.Disconnected().Subscribe()
	go func() {
		<-disconnectedCh
		unsubscribe()
		s.Dispose()
	}()

	for chunk := range s.Receiver() {
		if err := s.SendAsync(chunk).Err(); err != nil {
			break
		}
	}
	s.Dispose()
}
