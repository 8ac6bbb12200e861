package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/likeness-guard/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <session-report>",
	Short: "Print the delta table of a saved session report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		session, err := report.Read(args[0])
		if err != nil {
			logger.Fatal("reading session report", zap.Error(err))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (%s)\n", styleTitle.Render("session:"), session.ID, session.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprint(out, report.DeltaTable(session.Results()))
		if session.Overall != nil {
			fmt.Fprintf(out, "%s %d -> %d\n", styleTitle.Render("overall:"), session.Overall.Before, session.Overall.After)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
