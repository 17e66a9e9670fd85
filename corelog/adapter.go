// Package corelog wraps zerolog with an optional rolling file writer, used
// to give the proof-of-work core and its diagnostic CLI structured,
// leveled logging without imposing an opinion on final output destination.
//
// Rolling-file policy is derived from the consensus parameter set a
// command is running against rather than hard-coded: a long-running
// network gets on-disk retention, while a no-retargeting throwaway chain
// (regtest-style) defaults to console-only, the way a disposable chain
// shouldn't leave a growing logs/ directory behind it.
package corelog

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/cuckoofork/jaxcore/types/chaincfg"
)

var (
	Disabled zerolog.Logger

	DefaultLevel = zerolog.InfoLevel
)

func init() {
	Disabled = zerolog.Nop()
}

// Config for logging
type Config struct {
	// Disable console logging
	DisableConsoleLog bool `yaml:"disable_console_log"`
	// LogsAsJson makes the log framework log JSON
	LogsAsJson bool `yaml:"logs_as_json"`
	// FileLoggingEnabled makes the framework log to a file
	// the fields below can be skipped if this value is false!
	FileLoggingEnabled bool `yaml:"file_logging_enabled"`
	// Directory to log to to when filelogging is enabled
	Directory string `yaml:"directory"`
	// Filename is the name of the logfile which will be placed inside the directory
	Filename string `yaml:"filename"`
	// MaxSize the max size in MB of the logfile before it's rolled
	MaxSize int `yaml:"max_size"`
	// MaxBackups the max number of rolled files to keep
	MaxBackups int `yaml:"max_backups"`
	// MaxAge the max age in days to keep a logfile
	MaxAge int `yaml:"max_age"`
}

// DefaultForNetwork derives a Config from a consensus parameter set. Every
// network gets console logging; on-disk rolling is additionally enabled
// for networks that retarget difficulty (mainnet, testnet-like networks),
// since those are the ones expected to run long enough for a log file to
// matter. A PowNoRetargeting network (regtest-style) is treated as
// disposable and stays console-only. A testnet-style network
// (PowAllowMinDifficultyBlocks) rolls more aggressively, since it churns
// through the minimum-difficulty rule far more than mainnet does.
func DefaultForNetwork(params *chaincfg.ConsensusParams) Config {
	cfg := Config{
		Directory:  path.Join("core", params.Name),
		Filename:   params.Name + ".log",
		MaxSize:    150,
		MaxBackups: 3,
		MaxAge:     28,
	}

	if params.PowNoRetargeting {
		return cfg
	}

	cfg.FileLoggingEnabled = true
	if params.PowAllowMinDifficultyBlocks {
		cfg.MaxBackups = 1
		cfg.MaxAge = 7
	}
	return cfg
}

type Logger struct {
	*zerolog.Logger
}

// New builds a leveled zerolog.Logger for unit (e.g. a CLI command or
// subsystem name) running against network (a chaincfg.ConsensusParams.Name,
// or any other short tag when no consensus params apply), writing to the
// destinations config selects.
func New(unit, network string, logLevel zerolog.Level, config Config) zerolog.Logger {
	var writers []io.Writer
	if !config.DisableConsoleLog && !config.LogsAsJson {
		out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}
		out.TimeFormat = time.RFC3339
		out.FormatLevel = func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s| %s/%s |", i, network, unit))
		}
		out.FormatMessage = func(i interface{}) string {
			return fmt.Sprintf("%-6s  ", i)
		}
		writers = append(writers, out)
	}
	if !config.DisableConsoleLog && config.LogsAsJson {
		writers = append(writers, os.Stdout)
	}
	if config.FileLoggingEnabled {
		writers = append(writers, newRollingFile(config))
	}

	mw := io.MultiWriter(writers...)
	zerolog.SetGlobalLevel(DefaultLevel)

	logger := zerolog.New(mw).
		Level(logLevel).
		With().
		Str("unit", unit).
		Str("network", network).
		Timestamp().
		Logger()

	logger.Trace().
		Bool("fileLogging", config.FileLoggingEnabled).
		Bool("jsonLogOutput", config.LogsAsJson).
		Str("logDirectory", config.Directory).
		Str("fileName", config.Filename).
		Int("maxSizeMB", config.MaxSize).
		Int("maxBackups", config.MaxBackups).
		Int("maxAgeInDays", config.MaxAge).
		Msg("logging configured")

	return logger
}

func newRollingFile(config Config) io.Writer {
	if err := os.MkdirAll(config.Directory, 0744); err != nil {
		log.Error().Err(err).Str("path", config.Directory).Msg("can't create log directory")
		return nil
	}

	return &lumberjack.Logger{
		Filename:   path.Join(config.Directory, config.Filename),
		MaxBackups: config.MaxBackups, // files
		MaxSize:    config.MaxSize,    // megabytes
		MaxAge:     config.MaxAge,     // days
	}
}
