// Package batch runs the export, rebuild and inspect pipelines over a
// single script or every matching script in a directory.
package batch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/tactics-script/codec"
	"github.com/wippyai/tactics-script/config"
	"github.com/wippyai/tactics-script/errors"
	"github.com/wippyai/tactics-script/script"
)

// Settings carries everything a pipeline needs to process one file.
type Settings struct {
	Write     *codec.Codec
	OutputDir string
	Options   script.Options
	Mode      script.ExportMode
}

// FromConfig resolves pipeline settings from a configuration.
func FromConfig(c *config.Config) (Settings, error) {
	opts, err := c.ScriptOptions()
	if err != nil {
		return Settings{}, err
	}
	_, write, err := c.Codecs()
	if err != nil {
		return Settings{}, err
	}
	mode, err := c.ExportMode()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Options:   opts,
		Write:     write,
		Mode:      mode,
		OutputDir: c.Rebuild.OutputDir,
	}, nil
}

// Summary counts processed and failed files.
type Summary struct {
	Total  int
	Failed int
}

// Runner applies a job to every script selected by a path.
type Runner struct {
	Log     *zap.Logger
	Pattern string
}

// Files returns path itself when it is a file, or the files directly inside
// it matching Pattern, sorted by name.
func (r *Runner) Files(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseLoad, path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	pattern := r.Pattern
	if pattern == "" {
		pattern = "*.bin"
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseLoad, path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, e.Name())
		if err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(pattern).
				Cause(err).
				Detail("bad input pattern %q", pattern).
				Build()
		}
		if ok {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run calls job for every file selected by path. A failing file is logged
// and the run continues; the returned error combines every failure.
func (r *Runner) Run(path string, job func(file string) error) (Summary, error) {
	log := r.logger()

	files, err := r.Files(path)
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		log.Warn("no scripts found", zap.String("path", path), zap.String("pattern", r.Pattern))
	}

	var sum Summary
	var errs error
	for _, f := range files {
		sum.Total++
		if err := job(f); err != nil {
			sum.Failed++
			log.Error("script failed", zap.String("file", filepath.Base(f)), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		log.Debug("script done", zap.String("file", filepath.Base(f)))
	}

	log.Info("batch finished", zap.Int("total", sum.Total), zap.Int("failed", sum.Failed))
	return sum, errs
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// TextPath returns the translation file that belongs to a script.
func TextPath(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".txt"
}

// OutputPath returns where the rebuilt copy of a script is written.
func OutputPath(file, outputDir string) string {
	return filepath.Join(filepath.Dir(file), outputDir, filepath.Base(file))
}
