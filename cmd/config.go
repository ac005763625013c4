package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"gooze.dev/pkg/polymut/internal/adapter"
	"gooze.dev/pkg/polymut/internal/domain"
	m "gooze.dev/pkg/polymut/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "polymut"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName        = "output"
	stateDirFlagName      = "state-dir"
	includeFlagName       = "include"
	excludeFlagName       = "exclude"
	operatorsFlagName     = "operators"
	shardFlagName         = "shard"
	incrementalFlagName   = "incremental"
	baseRefFlagName       = "base"
	sampleFlagName        = "sample"
	seedFlagName          = "seed"
	hintsFlagName         = "hints"
	verboseFlagName       = "verbose"
	logFileFlagName       = "log-file"
	runParallelFlagName   = "parallel"
	mutationTimeoutFlag   = "mutation-timeout"
	timeoutFactorFlagName = "timeout-factor"
	thresholdFlagName     = "threshold"
	failFastFlagName      = "fail-fast"
	isolationFlagName     = "isolation"
	testCommandFlagName   = "test-command"
	skipBaselineFlagName  = "skip-baseline"

	outputConfigKey         = "output"
	includeConfigKey        = "paths.include"
	excludeConfigKey        = "paths.exclude"
	rootConfigKey           = "run.root"
	runParallelConfigKey    = "run.parallel"
	mutationTimeoutKey      = "run.mutation_timeout"
	timeoutFactorKey        = "run.timeout_factor"
	thresholdKey            = "run.threshold"
	failFastKey             = "run.fail_fast"
	isolationKey            = "run.isolation"
	testCommandKey          = "run.test_command"
	compileErrorPatternsKey = "run.compile_error_patterns"
	operatorsKey            = "run.operators"
	skipBaselineKey         = "run.skip_baseline"
	stateDirKey             = "run.state_dir"
	baseRefKey              = "selection.base_ref"
	incrementalKey          = "selection.incremental"
	sampleKey               = "selection.sample"
	seedKey                 = "selection.seed"
	hintsFileKey            = "hints.file"

	defaultRoot            = "./..."
	defaultReportsDir      = ".polymut-reports"
	defaultMutationTimeout = 30 * time.Second
	defaultTimeoutFactor   = 3.0
	defaultIsolation       = string(domain.IsolationAuto)
	defaultBaseRef         = "main"
	defaultSeed            = 1

	envPrefix = "POLYMUT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".polymut.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// defaultCompileErrorPatterns classify test output as a build failure
// rather than a failing test.
var defaultCompileErrorPatterns = []string{
	`\[build failed\]`,
	`\[setup failed\]`,
	`error TS\d+:`,
	`SyntaxError:`,
}

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputConfigKey, defaultReportsDir)
	viper.SetDefault(includeConfigKey, []string{})
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(rootConfigKey, defaultRoot)
	viper.SetDefault(runParallelConfigKey, runtime.NumCPU())
	viper.SetDefault(mutationTimeoutKey, defaultMutationTimeout.String())
	viper.SetDefault(timeoutFactorKey, defaultTimeoutFactor)
	viper.SetDefault(thresholdKey, 0.0)
	viper.SetDefault(failFastKey, false)
	viper.SetDefault(isolationKey, defaultIsolation)
	viper.SetDefault(testCommandKey, "")
	viper.SetDefault(compileErrorPatternsKey, defaultCompileErrorPatterns)
	viper.SetDefault(operatorsKey, []string{})
	viper.SetDefault(skipBaselineKey, false)
	viper.SetDefault(stateDirKey, domain.DefaultStateDir)
	viper.SetDefault(baseRefKey, defaultBaseRef)
	viper.SetDefault(incrementalKey, false)
	viper.SetDefault(sampleKey, 0)
	viper.SetDefault(seedKey, defaultSeed)
	viper.SetDefault(hintsFileKey, "")

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

		slog.Warn("Failed to read config file", "file", configFileName, "error", err)
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

// estimateArgsFromConfig collects the selection settings shared by list and run.
func estimateArgsFromConfig(args []string) (domain.EstimateArgs, error) {
	paths := parsePaths(args)
	if len(paths) == 0 {
		paths = []m.Path{m.Path(viper.GetString(rootConfigKey))}
	}

	operators, err := m.ParseOperators(viper.GetStringSlice(operatorsKey))
	if err != nil {
		return domain.EstimateArgs{}, err
	}

	shardIndex, shardCount := parseShardFlag(shardFlag)

	selection := m.SelectionCriteria{
		SampleSize: viper.GetInt(sampleKey),
		Seed:       viper.GetUint64(seedKey),
		ShardIndex: shardIndex,
		ShardCount: shardCount,
	}

	if viper.GetBool(incrementalKey) {
		selection.BaseRef = viper.GetString(baseRefKey)
		if selection.BaseRef == "" {
			return domain.EstimateArgs{}, errors.New("incremental mode needs a base ref")
		}
	}

	return domain.EstimateArgs{
		Paths:     paths,
		Include:   viper.GetStringSlice(includeConfigKey),
		Exclude:   viper.GetStringSlice(excludeConfigKey),
		Operators: operators,
		Selection: selection,
		HintsFile: m.Path(viper.GetString(hintsFileKey)),
		Reports:   m.Path(viper.GetString(outputConfigKey)),
		StateDir:  m.Path(viper.GetString(stateDirKey)),
	}, nil
}

// testArgsFromConfig adds the execution settings of run.
func testArgsFromConfig(args []string) (domain.TestArgs, error) {
	estimate, err := estimateArgsFromConfig(args)
	if err != nil {
		return domain.TestArgs{}, err
	}

	isolation, err := domain.ParseIsolation(viper.GetString(isolationKey))
	if err != nil {
		return domain.TestArgs{}, err
	}

	var command []string

	if line := strings.TrimSpace(viper.GetString(testCommandKey)); line != "" {
		command, err = adapter.SplitCommand(line)
		if err != nil {
			return domain.TestArgs{}, err
		}
	}

	patterns, err := compilePatterns(viper.GetStringSlice(compileErrorPatternsKey))
	if err != nil {
		return domain.TestArgs{}, err
	}

	threshold := viper.GetFloat64(thresholdKey)
	if threshold < 0 || threshold > 100 {
		return domain.TestArgs{}, fmt.Errorf("threshold %.2f is outside 0..100", threshold)
	}

	return domain.TestArgs{
		EstimateArgs:    estimate,
		Workers:         max(viper.GetInt(runParallelConfigKey), 1),
		Isolation:       isolation,
		Command:         command,
		CompilePatterns: patterns,
		MutationTimeout: viper.GetDuration(mutationTimeoutKey),
		TimeoutFactor:   viper.GetFloat64(timeoutFactorKey),
		Threshold:       threshold,
		FailFast:        viper.GetBool(failFastKey),
		SkipBaseline:    viper.GetBool(skipBaselineKey),
	}, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid compile error pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}
