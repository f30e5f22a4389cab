package util

import (
	"strings"

	"github.com/ValentinKolb/rsock/lib/sock"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the column at which flag help text is rewrapped
	Wrap int = 50
)

// WrapString rewraps help text at the Wrap column. Cobra prints flag usage
// strings as-is, so long descriptions have to be broken here.
func WrapString(text string) string {
	var sb strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		switch {
		case lineWidth == 0:
			// First word on the line
		case lineWidth+1+len(word) > Wrap:
			sb.WriteString("\n")
			lineWidth = 0
		default:
			sb.WriteString(" ")
			lineWidth++
		}
		sb.WriteString(word)
		lineWidth += len(word)
	}

	return sb.String()
}

// SetupSocketFlags adds the common socket configuration flags to a command
func SetupSocketFlags(cmd *cobra.Command) {
	key := "receive-buffer"
	cmd.PersistentFlags().Int(key, sock.DefaultReceiveBufferSize, WrapString("The size in bytes of a single read issued by the read loop"))

	key = "socket-write-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The OS socket write buffer size in bytes (0 = OS default)"))

	key = "socket-read-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The OS socket read buffer size in bytes (0 = OS default)"))

	key = "tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY for the connection"))

	key = "tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval for the connection (in seconds, 0 = disabled)"))

	key = "tcp-linger"
	cmd.PersistentFlags().Int(key, -1, WrapString("The linger time for the connection (in seconds, negative = OS default)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("The level at which logs will be output (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("rsock")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetSocketConfig reads the socket configuration from viper
func GetSocketConfig() sock.Config {
	return sock.Config{
		ReceiveBufferSize: viper.GetInt("receive-buffer"),
		Socket: sock.SocketConf{
			WriteBufferSize: viper.GetInt("socket-write-buffer"),
			ReadBufferSize:  viper.GetInt("socket-read-buffer"),
		},
		TCP: sock.TCPConf{
			TCPNoDelay:      viper.GetBool("tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("tcp-linger"),
		},
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
