package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/likeness-guard/internal/humanize"
	"github.com/spigell/likeness-guard/internal/likeness"
	"github.com/spigell/likeness-guard/internal/report"
)

var humanizeCmd = &cobra.Command{
	Use:   "humanize [file|-]",
	Short: "Rewrite a text until it scores at or below the target",
	Args:  cobra.MaximumNArgs(1),
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindOptimizerFlags(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		text, err := readInput(args)
		if err != nil {
			logger.Fatal("reading input", zap.Error(err))
		}

		label, _ := cmd.Flags().GetString("label")
		out, _ := cmd.Flags().GetString("out")
		yes, _ := cmd.Flags().GetBool("yes")
		withReport, _ := cmd.Flags().GetBool("report")
		noExpand, _ := cmd.Flags().GetBool("no-expand")

		opts := []humanize.ReduceOption{
			humanize.WithTarget(config.Optimizer.Target),
			humanize.WithMaxIterations(config.Optimizer.MaxIterations),
			humanize.WithLabel(label),
		}
		if noExpand {
			opts = append(opts, humanize.WithoutExpansion())
		}

		optimizer := humanize.New(likeness.Default(), humanize.WithLogger(logger))
		best, result := optimizer.Reduce(text, opts...)

		if out == "" {
			fmt.Fprintln(cmd.OutOrStdout(), best)
		} else {
			if err := writeOutput(out, best, yes); err != nil {
				if errors.Is(err, errAborted) {
					logger.Info("exiting", zap.String("reason", "overwrite declined"))
					return
				}
				logger.Fatal("writing output", zap.Error(err))
			}
			logger.Info("wrote humanized text", zap.String("path", out))
		}

		fmt.Fprint(cmd.ErrOrStderr(), report.DeltaTable([]*humanize.Result{result}))

		if withReport {
			session := report.NewSession(time.Now())
			session.Add(result)
			path, err := report.Write(config.Report.Dir, config.Report.Format, session)
			if err != nil {
				logger.Fatal("writing session report", zap.Error(err))
			}
			logger.Info("wrote session report", zap.String("path", path), zap.String("session", session.ID.String()))
		}
	},
}

func init() {
	rootCmd.AddCommand(humanizeCmd)

	humanizeCmd.Flags().Int("target", humanize.DefaultTarget, "stop once the score is at or below this value")
	humanizeCmd.Flags().Int("max-iterations", humanize.DefaultMaxIterations, "maximum number of rewrite passes")
	humanizeCmd.Flags().String("label", "text", "label used in logs and reports; labels containing closing or intro are never expanded")
	humanizeCmd.Flags().StringP("out", "o", "", "write the result to a file instead of stdout")
	humanizeCmd.Flags().Bool("report", false, "write a session report to report.dir")
	humanizeCmd.Flags().Bool("no-expand", false, "never append expansion sentences")
	humanizeCmd.Flags().BoolP("yes", "y", false, "do not ask before overwriting --out")
}

// bindOptimizerFlags binds the running command's flags, so that commands
// sharing flag names do not override each other.
func bindOptimizerFlags(cmd *cobra.Command) {
	viper.BindPFlag("optimizer.target", cmd.Flags().Lookup("target"))
	viper.BindPFlag("optimizer.max-iterations", cmd.Flags().Lookup("max-iterations"))
}
