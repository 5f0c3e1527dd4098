package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/tirasundara/h1b-certified-stats/internal/logging"
	"github.com/tirasundara/h1b-certified-stats/internal/service"
)

const (
	defaultInputDir  = "./input"
	defaultOutputDir = "./output"
	defaultWorkers   = 1
)

func main() {
	// Command-line flags
	var (
		envFile   string
		inputDir  string
		outputDir string
		workers   int
	)

	flag.StringVar(&envFile, "env", ".env", "Optional .env file with H1B_* defaults")
	flag.StringVar(&inputDir, "input", defaultInputDir, "Directory containing the input file (.csv or .txt)")
	flag.StringVar(&inputDir, "i", defaultInputDir, "Shorthand for -input")
	flag.StringVar(&outputDir, "output", defaultOutputDir, "Directory to store output files")
	flag.StringVar(&outputDir, "o", defaultOutputDir, "Shorthand for -output")
	flag.IntVar(&workers, "workers", defaultWorkers, "Number of aggregation workers, 1 reads the file sequentially")

	flag.Parse()

	if err := loadEnv(envFile); err != nil {
		exitWithError(fmt.Sprintf("Failed to load %s: %v", envFile, err))
	}

	// Explicit flags win over H1B_* environment values
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["input"] && !set["i"] {
		inputDir = getEnv("H1B_INPUT_DIR", defaultInputDir)
	}
	if !set["output"] && !set["o"] {
		outputDir = getEnv("H1B_OUTPUT_DIR", defaultOutputDir)
	}
	if !set["workers"] {
		workers = getEnvInt("H1B_WORKERS", defaultWorkers)
	}

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(os.Getenv("H1B_LOG_LEVEL")))
	logger.Info("Starting H1B certified statistics",
		slog.String("input_dir", inputDir),
		slog.String("output_dir", outputDir),
		slog.Int("workers", workers))

	statsService := service.NewStatsService(inputDir, outputDir, workers, logging.NewSlogObserver(logger))

	result, err := statsService.Run()
	if err != nil {
		exitWithError(err.Error())
	}

	logger.Info("Finished",
		slog.String("input_file", result.InputFile),
		slog.String("delimiter", strconv.QuoteRune(result.Delimiter)),
		slog.Int("rows_read", result.Tally.RowsRead),
		slog.Int("rows_skipped", result.Tally.RowsSkipped),
		slog.Int("certified", result.Tally.Certified),
		slog.String("certified_rate", result.Tally.CertifiedRate().StringFixed(2)+"%"))
}

// loadEnv loads envFile when present, a missing file is not an error
func loadEnv(envFile string) error {
	if envFile == "" {
		return nil
	}

	err := godotenv.Load(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func exitWithError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Run with -h flag for usage information.\n")
	os.Exit(1)
}
