// Command pcapngdump decodes a pcapng capture file and prints one
// line per packet: an RFC3339Nano timestamp and the MD5 digest of the
// packet's captured bytes.
package main

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sofiworker/pcapng"
	"github.com/sofiworker/pcapng/internal/config"
	"github.com/sofiworker/pcapng/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("pcapngdump", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	strict := flags.Bool("strict", false, "promote snap-length overruns to non-fatal errors")
	maxConsecutiveErrors := flags.Int("max-consecutive-errors", 1000, "abort after this many consecutive non-fatal errors (0 disables the cap)")
	logLevel := flags.String("log-level", "", "override the configured log level (debug|info|warn|error)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: pcapngdump [flags] <file.pcapng>")
		return 2
	}
	path := flags.Arg(0)

	loader := config.NewLoader()
	settings, err := loader.Load()
	if err != nil {
		fmt.Fprintf(stderr, "pcapngdump: config: %v\n", err)
		return 1
	}
	if flags.Changed("strict") {
		settings.StrictMode = *strict
	}
	if flags.Changed("max-consecutive-errors") {
		settings.MaxConsecutiveErrors = *maxConsecutiveErrors
	}
	if *logLevel != "" {
		settings.LogLevel = *logLevel
	}

	logCfg := telemetry.DefaultConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(settings.LogLevel)); err == nil {
		logCfg.Level = lvl
	}
	logCfg.Encoding = telemetry.Encoding(settings.LogEncoding)
	log, err := telemetry.New(logCfg)
	if err != nil {
		fmt.Fprintf(stderr, "pcapngdump: logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "pcapngdump: %v\n", err)
		return 1
	}
	defer f.Close()

	opts := []pcapng.Option{pcapng.WithStrictMode(settings.StrictMode)}
	if settings.MaxBlockSizeBytes > 0 {
		opts = append(opts, pcapng.WithMaxBlockSize(settings.MaxBlockSizeBytes))
	}
	capture := pcapng.New(f, opts...).WithLogger(log)

	var warnings error
	consecutive := 0
	packets := 0
	for {
		pkt, err := capture.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if pcapng.IsFatal(err) {
				fmt.Fprintf(stderr, "pcapngdump: fatal: %v\n", err)
				return 1
			}
			warnings = multierr.Append(warnings, err)
			consecutive++
			if settings.MaxConsecutiveErrors > 0 && consecutive >= settings.MaxConsecutiveErrors {
				fmt.Fprintf(stderr, "pcapngdump: aborting after %d consecutive non-fatal errors\n", consecutive)
				return 1
			}
			continue
		}
		consecutive = 0
		sum := md5.Sum(pkt.Data)
		fmt.Fprintf(stdout, "%s\t%s\n", pkt.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00"), hex.EncodeToString(sum[:]))
		packets++
	}

	if warnings != nil {
		log.Warn("run completed with non-fatal errors", zap.Int("packets", packets), zap.Error(warnings))
	}
	return 0
}
