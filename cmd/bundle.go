package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/likeness-guard/internal/bundle"
	"github.com/spigell/likeness-guard/internal/humanize"
	"github.com/spigell/likeness-guard/internal/likeness"
	"github.com/spigell/likeness-guard/internal/report"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Humanize the summary, experience bullets and cover letter body of a CV bundle",
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindOptimizerFlags(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		cvPath, _ := cmd.Flags().GetString("cv")
		clPath, _ := cmd.Flags().GetString("cl")
		outDir, _ := cmd.Flags().GetString("out-dir")
		yes, _ := cmd.Flags().GetBool("yes")

		if cvPath == "" && clPath == "" {
			logger.Fatal("nothing to do", zap.String("hint", "pass --cv and/or --cl"))
		}

		var doc bundle.Document
		if doc.CV, err = readJSON(cvPath); err != nil {
			logger.Fatal("reading cv", zap.Error(err))
		}
		if doc.CoverLetter, err = readJSON(clPath); err != nil {
			logger.Fatal("reading cover letter", zap.Error(err))
		}

		rewriter, err := newRewriter(ctx, config.AI, logger)
		if err != nil {
			logger.Warn("continuing without ai rewriter", zap.Error(err))
		}

		evaluator := likeness.Default()
		runner := bundle.NewRunner(humanize.New(evaluator, humanize.WithLogger(logger)), evaluator, bundle.Options{
			Target:        config.Optimizer.Target,
			MaxIterations: config.Optimizer.MaxIterations,
			LLMMargin:     config.Bundle.LLMMargin,
			Weights:       config.Bundle.Weights,
			Rewriter:      rewriter,
			Logger:        logger,
		})

		outcome, err := runner.Run(ctx, doc)
		if err != nil {
			logger.Fatal("optimizing bundle", zap.Error(err))
		}

		bundle.Apply(doc, outcome.Regions)

		for _, f := range []struct {
			src  string
			data map[string]any
		}{{cvPath, doc.CV}, {clPath, doc.CoverLetter}} {
			if f.src == "" {
				continue
			}
			path := filepath.Join(outDir, outputName(f.src))
			if err := writeJSON(path, f.data, yes); err != nil {
				if errors.Is(err, errAborted) {
					logger.Info("skipping file", zap.String("path", path), zap.String("reason", "overwrite declined"))
					continue
				}
				logger.Fatal("writing output", zap.Error(err))
			}
			logger.Info("wrote humanized document", zap.String("path", path))
		}

		session := report.NewSession(time.Now())
		session.Add(outcome.Results...)
		session.Overall = &report.Overall{Before: outcome.Before.Overall, After: outcome.After.Overall}
		path, err := report.Write(config.Report.Dir, config.Report.Format, session)
		if err != nil {
			logger.Fatal("writing session report", zap.Error(err))
		}

		fmt.Fprint(cmd.OutOrStdout(), report.DeltaTable(outcome.Results))
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d -> %d\n", styleTitle.Render("overall:"), outcome.Before.Overall, outcome.After.Overall)

		logger.Info("wrote session report", zap.String("path", path), zap.String("session", session.ID.String()))
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)

	bundleCmd.Flags().String("cv", "", "CV as JSON")
	bundleCmd.Flags().String("cl", "", "cover letter as JSON")
	bundleCmd.Flags().String("out-dir", ".", "directory for the humanized JSON files")
	bundleCmd.Flags().Int("target", humanize.DefaultTarget, "stop once a region scores at or below this value")
	bundleCmd.Flags().Int("max-iterations", humanize.DefaultMaxIterations, "maximum number of rewrite passes per region")
	bundleCmd.Flags().BoolP("yes", "y", false, "do not ask before overwriting output files")
}

func readJSON(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

func writeJSON(path string, data map[string]any, yes bool) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeOutput(path, string(encoded)+"\n", yes)
}

// outputName maps cv.json to cv.humanized.json.
func outputName(src string) string {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".json"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".humanized" + ext
}
