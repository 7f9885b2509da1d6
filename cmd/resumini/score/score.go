// Package scorecmder provides the score command, which runs the heuristic ATS
// scorer over a local resume file without a running server.
package scorecmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/resumini/cmd/resumini/serve"
	"github.com/papercomputeco/resumini/pkg/ats"
	"github.com/papercomputeco/resumini/pkg/cliui"
	"github.com/papercomputeco/resumini/pkg/config"
	"github.com/papercomputeco/resumini/pkg/extract"
	"github.com/papercomputeco/resumini/pkg/logger"
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)

type scoreCommander struct {
	path   string
	role   string
	asJSON bool

	configDir string
	debug     bool
	out       io.Writer
}

const scoreLongDesc string = `Score a resume file against the ATS heuristic.

The file is extracted (PDF, DOCX or plain text) and scored on keyword
coverage, section coverage and length. Scoring criteria come from the
scoring.* config keys. No generator or running server is needed.

Examples:
  resumini score resume.pdf
  resumini score resume.docx --role "Data Scientist"
  resumini score resume.txt --json`

const scoreShortDesc string = "Score a resume file"

func NewScoreCmd() *cobra.Command {
	cmder := &scoreCommander{out: os.Stdout}

	cmd := &cobra.Command{
		Use:   "score <file>",
		Short: scoreShortDesc,
		Long:  scoreLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.path = args[0]
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.role, "role", "r", "", "Target role shown alongside the report")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func (c *scoreCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	scorer, err := servecmder.NewScorer(v)
	if err != nil {
		return err
	}

	log := logger.Nop()
	if c.debug {
		log = logger.New(logger.WithDebug(true), logger.WithPretty(true), logger.WithWriter(os.Stderr))
	}

	text, err := extract.New(log).ExtractFile(ctx, c.path)
	if err != nil {
		return err
	}

	report := scorer.Score(text, c.role)

	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	c.print(report)
	return nil
}

func (c *scoreCommander) print(report ats.Report) {
	fmt.Fprintf(c.out, "\n%s %s\n",
		headerStyle.Render("ATS report for"),
		cliui.ValueStyle.Render(c.path),
	)
	if c.role != "" {
		fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("role:"), cliui.ValueStyle.Render(c.role))
	}
	fmt.Fprintln(c.out)

	rows := []struct {
		label string
		score float64
	}{
		{"overall  ", report.OverallScore},
		{"keywords ", report.KeywordScore},
		{"structure", report.StructureScore},
		{"length   ", report.LengthScore},
	}
	for _, row := range rows {
		fmt.Fprintf(c.out, "  %s  %s\n", cliui.KeyStyle.Render(row.label), cliui.ScoreBar(row.score, 0))
	}
	fmt.Fprintln(c.out)
}
