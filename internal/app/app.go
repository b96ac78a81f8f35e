// Package app wires input discovery, the per-page extraction pipeline, the
// cross-page reduction, and artifact serialization into one run.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/reviewsift/reviewsift/internal/output"
	"github.com/reviewsift/reviewsift/internal/pipeline"
	"github.com/reviewsift/reviewsift/internal/record"
)

// ErrNoInputFiles is returned when no glob matched a regular file. Per the
// exit code policy this is the only fatal condition; every per-page failure
// degrades that page's contribution to empty instead.
var ErrNoInputFiles = errors.New("no input files matched")

type App struct {
	cfg Config
}

func New(cfg Config) *App {
	if len(cfg.Globs) == 0 {
		cfg.Globs = DefaultGlobs
	}
	if cfg.JSONKeys.BusinessKey == "" || cfg.JSONKeys.LocationKey == "" {
		cfg.JSONKeys = output.DefaultJSONOptions()
	}
	return &App{cfg: cfg}
}

// Run processes every matched page in input order, reduces the accumulated
// records, and writes the configured artifacts. No partial output is written
// when discovery fails.
func (a *App) Run() error {
	files, err := discover(a.cfg.Globs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrNoInputFiles
	}
	for _, f := range files {
		log.Debug().Str("file", f).Msg("queued input page")
	}

	var all []record.Review
	var biz record.Business
	for _, path := range files {
		res := a.extractFile(path)
		all = append(all, res.Reviews...)
		// First page with any business fields supplies the summary header.
		if biz.Empty() && !res.Business.Empty() {
			biz = res.Business
		}
	}

	final := pipeline.Dedupe(all)
	organic := len(final)
	final = pipeline.Pad(final, a.cfg.MinReviews)

	if a.cfg.OutJSON != "" {
		if err := output.WriteJSON(a.cfg.OutJSON, final, a.cfg.JSONKeys); err != nil {
			return fmt.Errorf("json artifact: %w", err)
		}
	}
	if a.cfg.OutCSV != "" {
		if err := output.WriteCSV(a.cfg.OutCSV, final); err != nil {
			return fmt.Errorf("csv artifact: %w", err)
		}
	}
	if a.cfg.OutPDF != "" {
		if err := output.WritePDF(a.cfg.OutPDF, biz, final); err != nil {
			return fmt.Errorf("pdf artifact: %w", err)
		}
	}

	log.Info().
		Int("pages", len(files)).
		Int("reviews", organic).
		Int("padded", len(final)-organic).
		Str("json", a.cfg.OutJSON).
		Str("csv", a.cfg.OutCSV).
		Msg("aggregation complete")
	return nil
}

// extractFile runs the pipeline over a single page. Read failures degrade to
// an empty contribution; decoding problems are substituted, not fatal.
func (a *App) extractFile(path string) pipeline.PageResult {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("skipping unreadable page")
		return pipeline.PageResult{}
	}
	text := strings.ToValidUTF8(string(raw), "�")

	res := pipeline.ExtractPage(text)
	if res.Blocked {
		log.Warn().Str("file", filepath.Base(path)).Msg("page looks like a block or captcha interstitial; extraction may be empty")
	}
	log.Info().
		Str("file", filepath.Base(path)).
		Str("strategy", string(res.Strategy)).
		Int("reviews", len(res.Reviews)).
		Msg("page extracted")
	return res
}

// discover expands each glob in order, keeping only regular files, with
// matches sorted within a glob so output order is reproducible.
func discover(globs []string) ([]string, error) {
	var files []string
	for _, g := range globs {
		matches, err := filepath.Glob(g)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", g, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			files = append(files, m)
		}
	}
	return files, nil
}
