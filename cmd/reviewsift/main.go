package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reviewsift/reviewsift/internal/app"
	"github.com/reviewsift/reviewsift/internal/output"
)

// globFlags collects a repeatable -glob flag.
type globFlags []string

func (g *globFlags) String() string { return strings.Join(*g, ",") }

func (g *globFlags) Set(v string) error {
	if s := strings.TrimSpace(v); s != "" {
		*g = append(*g, s)
	}
	return nil
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Local .env is optional; absence is not an error.
	_ = godotenv.Load()

	var (
		globs       globFlags
		outJSON     string
		outCSV      string
		outPDF      string
		minReviews  int
		businessKey string
		locationKey string
		configPath  string
		verbose     bool
	)

	flag.Var(&globs, "glob", "Glob of saved HTML pages (repeatable). Default: Curl/*.html and pages/*.html")
	flag.StringVar(&outJSON, "out.json", "data.json", "Path to write the JSON artifact")
	flag.StringVar(&outCSV, "out.csv", "reviews.csv", "Path to write the CSV artifact")
	flag.StringVar(&outPDF, "out.pdf", "", "Optional path to write a PDF summary")
	flag.IntVar(&minReviews, "min", 5, "Minimum review yield; placeholders pad up to this floor (0 disables)")
	flag.StringVar(&businessKey, "keys.business", "", "JSON key for the business name field (default: business)")
	flag.StringVar(&locationKey, "keys.location", "", "JSON key for the business location field (default: location)")
	flag.StringVar(&configPath, "config", os.Getenv("REVIEWSIFT_CONFIG"), "Optional YAML/JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		Globs:      []string(globs),
		OutJSON:    outJSON,
		OutCSV:     outCSV,
		OutPDF:     outPDF,
		MinReviews: minReviews,
		JSONKeys:   output.JSONOptions{BusinessKey: businessKey, LocationKey: locationKey},
		Verbose:    verbose,
	}

	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("config", configPath).Msg("config file unreadable")
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: nonzero only when no input could be read at all.
		// Per-page extraction failures already degraded to empty output.
		if errors.Is(err, app.ErrNoInputFiles) {
			fmt.Fprintln(os.Stderr, "no HTML files found; put saved pages in ./Curl or ./pages, or pass -glob")
			os.Exit(2)
		}
		os.Exit(0)
	}
}

func run(cfg app.Config) error {
	return app.New(cfg).Run()
}
