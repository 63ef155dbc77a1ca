package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/CarlosBinho/aquaplan/internal/catalog"
	"github.com/CarlosBinho/aquaplan/internal/config"
	"github.com/CarlosBinho/aquaplan/internal/mix"
	"github.com/CarlosBinho/aquaplan/internal/ranking"
	"github.com/CarlosBinho/aquaplan/internal/server"
	"github.com/CarlosBinho/aquaplan/pkg/constants"
	"github.com/CarlosBinho/aquaplan/pkg/output"
	"github.com/CarlosBinho/aquaplan/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.3.0"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// serve runs the HTTP planning API until the process is terminated.
func serve(serverConfigLocation, addressOverride, logLevelOverride string) {
	serverConf, err := server.LoadConfig(serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration\", \"error\": \"%v\"}\n", err)
		return
	}
	if addressOverride != "" {
		serverConf.Address = addressOverride
	}

	logger, err := initializeLogger(serverConf.Logging, logLevelOverride)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	handler := server.NewHandler(logger, serverConf.UploadSizeBytes(), version)
	logger.Info("starting planning server",
		zap.String("op", "main"),
		zap.String("address", serverConf.Address),
	)
	if err := http.ListenAndServe(serverConf.Address, handler); err != nil {
		logger.Fatal("server terminated",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to plan configuration file")
	catalogLocation := flag.String("catalog", "", "species catalog override (.csv or .xlsx)")
	mode := flag.String("mode", constants.ModeAll, "what to compute: rank, mix, all")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serveFlag := flag.Bool("serve", false, "run the HTTP planning API instead of a one-shot plan")
	address := flag.String("address", "", "listen address override for -serve")
	serverConfigLocation := flag.String("server-config", "", "path to server configuration file for -serve")
	flag.Parse()

	if *serveFlag {
		serve(*serverConfigLocation, *address, *logLevel)
		return
	}

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}
	if *catalogLocation != "" {
		conf.Catalog.Path = *catalogLocation
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := validation.ValidateMode(*mode); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	err = conf.Validate()
	if err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Assemble the species catalog from the config and/or catalog file.
	species, rejects := catalog.Normalize(conf.Species)
	if conf.Catalog.Path != "" {
		loaded, loadRejects, err := catalog.Load(conf.Catalog.Path)
		if err != nil {
			logger.Fatal("failed to load species catalog",
				zap.String("op", "main"),
				zap.String("path", conf.Catalog.Path),
				zap.Error(err),
			)
		}
		merged, mergeRejects := catalog.Normalize(append(species, loaded...))
		species = merged
		rejects = append(rejects, loadRejects...)
		rejects = append(rejects, mergeRejects...)
	}
	for _, reject := range rejects {
		logger.Warn("skipping species record",
			zap.String("op", "main"),
			zap.Int("row", reject.Row),
			zap.String("name", reject.Name),
			zap.String("reason", reject.Reason),
		)
	}
	if len(species) == 0 {
		logger.Fatal("no usable species records",
			zap.String("op", "main"),
		)
	}

	// Rank each species in isolation.
	var rankings []ranking.Result
	if *mode == constants.ModeRank || *mode == constants.ModeAll {
		rankings = ranking.RankAll(logger, species, conf.Farm)
	}

	// Solve for the profit-maximizing mix across all species.
	var solution *mix.Solution
	if *mode == constants.ModeMix || *mode == constants.ModeAll {
		optimizer := mix.NewOptimizer(logger, nil)
		result, err := optimizer.Optimize(species, conf.Farm, mix.Options{
			IntegerUnits: conf.Optimizer.IntegerUnits,
		})
		if err != nil {
			logger.Fatal("failed to compute production mix",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		solution = &result
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(rankings, solution)
	case constants.OutputFormatCSV:
		output.CsvFormat(rankings, solution)
	}
}
