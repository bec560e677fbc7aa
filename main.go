package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"ktm-can-service/ktm"

	"github.com/spf13/cobra"
)

const (
	ProjectName    = "ktm-can-service"
	ProjectVersion = "1.0.0"
)

var (
	configPath  string
	logLevel    int
	redisServer string
	redisPort   int
	redisPrefix string
	printOnly   bool
	printFields bool
	realtime    bool
	replaySpeed float64
)

var rootCmd = &cobra.Command{
	Use:   "ktm-can",
	Short: "KTM 790 Duke CAN telemetry decoder",
	Long: `ktm-can decodes CAN frames from a KTM 790 Duke into typed telemetry
(RPM, throttle, gear, brakes, lean, coolant, lights, ...).

Decoded records are mirrored into Redis hashes (<prefix>:<family>) with a
notification on "<prefix> <family>", or printed to stdout with --print.`,
	Version:       ProjectVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Decode a capture file (or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReplay,
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Decode capture lines published on the <prefix>:raw Redis channel",
	Args:  cobra.NoArgs,
	RunE:  runListen,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <id> <payload>",
	Short: "Decode a single frame, e.g. decode 0x650 60 00 00 00 00 00 00 00",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDecode,
}

var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "List the CAN identifiers this decoder understands",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range ktm.KnownIDs() {
			fmt.Fprintf(cmd.OutOrStdout(), "0x%03X  %-18s %s\n", id, ktm.NameOf(id), ktm.KeyOf(id))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().IntVar(&logLevel, "log", int(LogLevelInfo), "Log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")
	rootCmd.PersistentFlags().StringVar(&redisServer, "redis_server", DefaultRedisServer, "Redis server address")
	rootCmd.PersistentFlags().IntVar(&redisPort, "redis_port", DefaultRedisPort, "Redis server port")
	rootCmd.PersistentFlags().StringVar(&redisPrefix, "redis_prefix", DefaultRedisPrefix, "Prefix for Redis keys and channels")
	rootCmd.PersistentFlags().BoolVarP(&printOnly, "print", "p", false, "Print decoded records instead of publishing to Redis")
	rootCmd.PersistentFlags().BoolVar(&printFields, "fields", false, "With --print, also print the raw field values")

	replayCmd.Flags().BoolVar(&realtime, "realtime", false, "Reproduce the capture timing")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Realtime speed factor")

	rootCmd.AddCommand(replayCmd, listenCmd, decodeCmd, idsCmd)
}

func buildOptions(cmd *cobra.Command) (*Options, error) {
	opts := DefaultOptions()
	opts.LogLevel = LogLevel(logLevel)
	opts.RedisServerAddr = redisServer
	opts.RedisServerPort = uint16(redisPort)
	opts.RedisPrefix = redisPrefix
	opts.PrintOnly = printOnly
	opts.PrintFields = printFields
	opts.Realtime = realtime
	opts.ReplaySpeed = replaySpeed

	if redisPort < 0 || redisPort > 65535 {
		return nil, fmt.Errorf("invalid redis port %d", redisPort)
	}

	if configPath != "" {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Apply(opts, cmd.Flags().Changed)
	}

	// Validate log level
	if opts.LogLevel < LogLevelNone || opts.LogLevel > LogLevelDebug {
		return nil, fmt.Errorf("invalid log level %d", opts.LogLevel)
	}

	return opts, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runReplay(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	input := os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open capture: %v", err)
		}
		defer f.Close()
		input = f
	}

	app, err := NewTelemetryApp(opts)
	if err != nil {
		return fmt.Errorf("failed to create telemetry app: %v", err)
	}
	defer app.Destroy()

	ctx, cancel := signalContext()
	defer cancel()

	replayer := NewReplayer(app.log, app, opts.Realtime, opts.ReplaySpeed)
	rs, err := replayer.Run(ctx, input)

	stats := app.Stats()
	app.log.Info("Replayed %d frames: %d decoded, %d unmapped, %d dropped, %d malformed lines",
		rs.Entries, stats.Decoded, stats.Unmapped, stats.Dropped, rs.Skipped)

	if err == context.Canceled {
		return nil
	}
	return err
}

func runListen(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	if opts.PrintOnly {
		return fmt.Errorf("listen needs Redis, --print is not supported")
	}

	app, err := NewTelemetryApp(opts)
	if err != nil {
		return fmt.Errorf("failed to create telemetry app: %v", err)
	}
	defer app.Destroy()

	if err := app.Listen(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Run until signal received
	select {
	case <-ctx.Done():
	case <-app.Done():
	}
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	id, err := parseCANID(args[0])
	if err != nil {
		return err
	}

	data, err := hex.DecodeString(strings.Join(args[1:], ""))
	if err != nil {
		return fmt.Errorf("invalid payload: %v", err)
	}

	record, err := ktm.Decode(id, data)
	if err != nil {
		return err
	}

	return newPrintSink(cmd.OutOrStdout(), true).SendRecord(record)
}

// parseCANID parses a hexadecimal identifier with or without 0x prefix.
func parseCANID(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid CAN ID %q", s)
	}
	return uint32(v), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ProjectName, err)
		os.Exit(1)
	}
}
