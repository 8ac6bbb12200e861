package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/likeness-guard/internal/likeness"
	"github.com/spigell/likeness-guard/internal/utils"
)

const excerptWidth = 72

var scoreCmd = &cobra.Command{
	Use:   "score [file|-]",
	Short: "Score how machine-written a text reads (0 human, 100 generated)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		text, err := readInput(args)
		if err != nil {
			logger.Fatal("reading input", zap.Error(err))
		}

		chunks, _ := cmd.Flags().GetBool("chunks")
		words, _ := cmd.Flags().GetInt("chunk-words")

		out := cmd.OutOrStdout()
		if chunks {
			fmt.Fprint(out, renderChunks(likeness.Default().AnalyzeChunks(text, words)))
			return
		}
		fmt.Fprint(out, renderAnalysis(likeness.Default().Analyze(text)))
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Bool("chunks", false, "score paragraphs in chunks of roughly --chunk-words words")
	scoreCmd.Flags().Int("chunk-words", likeness.DefaultChunkWords, "target words per chunk")
}

func renderAnalysis(a likeness.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styleTitle.Render("likeness:"), scoreBadge(a.Score))
	if a.Reason != "" {
		fmt.Fprintf(&b, "%s\n", styleMuted.Render("fallback: "+a.Reason))
		return b.String()
	}
	fmt.Fprintf(&b, "structural: %.1f\nlexical: %.1f (%s)\nboilerplate: %.1f\n",
		a.Components.Structural, a.Components.Lexical, a.Language, a.Components.Boilerplate)
	if len(a.Matches) > 0 {
		fmt.Fprintf(&b, "matched: %s\n", strings.Join(a.Matches, ", "))
	}
	return b.String()
}

func renderChunks(r likeness.ChunkReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", styleTitle.Render("overall:"), r.Overall)
	for i, c := range r.Chunks {
		fmt.Fprintf(&b, "#%d %s %s\n", i+1, scoreBadge(c.Analysis.Score), styleMuted.Render(utils.TruncateForLog(c.Excerpt, excerptWidth)))
	}
	return b.String()
}
