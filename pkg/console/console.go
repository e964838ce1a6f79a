// Package console renders execution progress to the terminal. All
// human-facing output goes through here; structured logs stay on the
// slog side.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brandmint/brandmint/pkg/models"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	costStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Console writes styled progress output to a single writer.
type Console struct {
	out io.Writer
}

func New(out io.Writer) *Console {
	return &Console{out: out}
}

// WaveBanner announces the start of a wave.
func (c *Console) WaveBanner(wave models.Wave, position, total int) {
	title := fmt.Sprintf("Wave %d/%d  %s", position, total, wave.Name)
	fmt.Fprintln(c.out, bannerStyle.Render(title))

	if wave.Description != "" {
		fmt.Fprintln(c.out, dimStyle.Render("  "+wave.Description))
	}

	fmt.Fprintf(c.out, "  %s  %s\n",
		dimStyle.Render(fmt.Sprintf("%d skills, %d assets", len(wave.TextSkills), len(wave.VisualAssets))),
		costStyle.Render(fmt.Sprintf("est. $%.2f", wave.EstimatedCost)))
}

// TaskLine prints one finished task with its status glyph.
func (c *Console) TaskLine(id string, status models.TaskStatus, durationSeconds float64) {
	var glyph string

	switch status {
	case models.TaskStatusCompleted:
		glyph = successStyle.Render("✓")
	case models.TaskStatusFailed:
		glyph = failStyle.Render("✗")
	case models.TaskStatusSkipped:
		glyph = skipStyle.Render("‒")
	default:
		glyph = dimStyle.Render("…")
	}

	line := fmt.Sprintf("  %s %s", glyph, id)
	if durationSeconds > 0 {
		line += dimStyle.Render(fmt.Sprintf("  %.1fs", durationSeconds))
	}

	fmt.Fprintln(c.out, line)
}

// Notice prints a dim informational line, used for poll progress.
func (c *Console) Notice(message string) {
	fmt.Fprintln(c.out, dimStyle.Render("  "+message))
}

// WaveSkipped explains why a wave was gated out.
func (c *Console) WaveSkipped(wave models.Wave, reason string) {
	fmt.Fprintf(c.out, "%s %s\n",
		skipStyle.Render(fmt.Sprintf("‒ Wave %d (%s) skipped:", wave.Number, wave.Name)),
		dimStyle.Render(reason))
}

// PlanTable prints the plan overview before execution.
func (c *Console) PlanTable(plan *models.WavePlan) {
	fmt.Fprintln(c.out, headingStyle.Render(fmt.Sprintf("Execution plan for %s (%s depth)", plan.Brand, plan.Depth)))

	for _, wave := range plan.Waves {
		deps := ""
		if len(wave.DependsOn) > 0 {
			deps = dimStyle.Render(fmt.Sprintf(" after %v", wave.DependsOn))
		}

		fmt.Fprintf(c.out, "  %d. %-28s %2d skills %2d assets  %s%s\n",
			wave.Number, wave.Name,
			len(wave.TextSkills), len(wave.VisualAssets),
			costStyle.Render(fmt.Sprintf("$%8.2f", wave.EstimatedCost)),
			deps)
	}

	fmt.Fprintf(c.out, "  %s %s\n",
		headingStyle.Render("Total:"),
		costStyle.Render(fmt.Sprintf("$%.2f (%d skills, %d assets)",
			plan.TotalCost(), plan.TotalTextSkills(), plan.TotalVisualAssets())))
}

// Summary prints the final execution report.
func (c *Console) Summary(report *models.ExecutionReport) {
	fmt.Fprintln(c.out, bannerStyle.Render("Execution "+report.Status))

	rows := []string{
		fmt.Sprintf("Skills:  %s succeeded, %s failed, %s skipped",
			successStyle.Render(fmt.Sprintf("%d", report.SkillsSucceeded)),
			failStyle.Render(fmt.Sprintf("%d", report.SkillsFailed)),
			skipStyle.Render(fmt.Sprintf("%d", report.SkillsSkipped))),
		fmt.Sprintf("Assets:  %s generated, %s failed",
			successStyle.Render(fmt.Sprintf("%d", report.AssetsGenerated)),
			failStyle.Render(fmt.Sprintf("%d", report.AssetsFailed))),
		fmt.Sprintf("Cost:    estimated $%.2f, actual %s",
			report.EstimatedCostUSD,
			costStyle.Render(fmt.Sprintf("$%.2f", report.ActualCostUSD))),
	}

	if report.TotalDurationSeconds > 0 {
		rows = append(rows, fmt.Sprintf("Elapsed: %.0fs", report.TotalDurationSeconds))
	}

	fmt.Fprintln(c.out, "  "+strings.Join(rows, "\n  "))
}

// Confirm prompts for a yes/no answer on the given reader. Empty input
// means yes.
func (c *Console) Confirm(in io.Reader, prompt string) bool {
	fmt.Fprintf(c.out, "%s [Y/n] ", prompt)

	var answer string

	if _, err := fmt.Fscanln(in, &answer); err != nil {
		return true
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "" || answer == "y" || answer == "yes"
}
