package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"jlower.dev/pkg/jlower/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "jlower"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	excludeFlagName  = "exclude"
	verboseFlagName  = "verbose"
	logFileFlagName  = "log-file"
	numberedFlagName = "numbered"
	seedFlagName     = "seed"
	prefixFlagName   = "prefix"
	parallelFlagName = "parallel"
	reportFlagName   = "report"
	diffFlagName     = "diff"

	excludeConfigKey       = "paths.exclude"
	numberedConfigKey      = "naming.numbered"
	seedConfigKey          = "naming.seed"
	wordsConfigKey         = "naming.words"
	prefixConfigKey        = "naming.prefix"
	maxIterationsConfigKey = "lowering.max_iterations"
	maxRoundsConfigKey     = "lowering.max_rounds"
	parallelConfigKey      = "batch.parallel"
	reportConfigKey        = "batch.report"

	// legacyNumberedEnv is honored alongside JLOWER_NAMING_NUMBERED.
	legacyNumberedEnv = "NUMBERED_NAMES"

	defaultNumbered      = false
	defaultSeed          = int64(0)
	defaultWords         = 3
	defaultBatchParallel = 1
	defaultReport        = ""

	envPrefix = "JLOWER"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".jlower.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	_ = viper.BindEnv(numberedConfigKey, envPrefix+"_NAMING_NUMBERED", legacyNumberedEnv)

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(numberedConfigKey, defaultNumbered)
	viper.SetDefault(seedConfigKey, defaultSeed)
	viper.SetDefault(wordsConfigKey, defaultWords)
	viper.SetDefault(prefixConfigKey, domain.DefaultNamePrefix)
	viper.SetDefault(maxIterationsConfigKey, domain.DefaultMaxIterations)
	viper.SetDefault(maxRoundsConfigKey, domain.DefaultMaxRounds)
	viper.SetDefault(parallelConfigKey, defaultBatchParallel)
	viper.SetDefault(reportConfigKey, defaultReport)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// namerConfig reads the naming settings in effect for the current command.
func namerConfig() domain.NamerConfig {
	return domain.NamerConfig{
		Numbered: viper.GetBool(numberedConfigKey),
		Seed:     viper.GetInt64(seedConfigKey),
		Words:    viper.GetInt(wordsConfigKey),
	}
}

// lowererConfig reads the lowering limits in effect for the current command.
func lowererConfig() domain.LowererConfig {
	return domain.LowererConfig{
		NamePrefix:    viper.GetString(prefixConfigKey),
		MaxIterations: viper.GetInt(maxIterationsConfigKey),
		MaxRounds:     viper.GetInt(maxRoundsConfigKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
