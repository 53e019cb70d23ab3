package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline/measure"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

type summaryStyles struct {
	header, cell, succeeded, failed, skipped lipgloss.Style
}

func newSummaryStyles(wrt io.Writer) summaryStyles {
	renderer := lipgloss.NewRenderer(wrt)
	cell := renderer.NewStyle().PaddingRight(2)

	return summaryStyles{
		header:    cell.Bold(true),
		cell:      cell,
		succeeded: cell.Foreground(lipgloss.Color("2")),
		failed:    cell.Foreground(lipgloss.Color("1")).Bold(true),
		skipped:   cell.Faint(true),
	}
}

type summaryRow struct {
	index, name, state, exit, duration string
	style                              lipgloss.Style
}

func summaryRows(steps []*model.StepInfo, res *pipeline.Result, msr measure.Measure, styles summaryStyles) []summaryRow {
	rows := make([]summaryRow, 0, len(steps))

	for _, step := range steps {
		row := summaryRow{
			index:    strconv.Itoa(step.Index + 1),
			name:     step.Name,
			state:    "skipped",
			exit:     "-",
			duration: "-",
			style:    styles.skipped,
		}

		if step.Index < len(res.Steps) {
			stepResult := res.Steps[step.Index]
			row.state, row.style = "succeeded", styles.succeeded
			row.exit = strconv.Itoa(stepResult.Status)

			if stepResult.Failed() {
				row.state, row.style = "failed", styles.failed
			}

			if stepResult.Status == model.NoExitStatus {
				row.exit = "-"
			}

			row.duration = stepDuration(msr, stepResult).String()
		}

		rows = append(rows, row)
	}

	return rows
}

func stepDuration(msr measure.Measure, stepResult *model.StepResult) time.Duration {
	if msr != nil {
		if mt := msr.GetMetric(stepResult.Step.Name); mt != nil && mt.Launches() > 0 {
			return mt.Duration()
		}
	}

	return stepResult.Duration.Round(time.Millisecond)
}

// runDuration prefers the total recorded by the measure when the run finished.
func runDuration(msr measure.Measure, res *pipeline.Result) time.Duration {
	if msr != nil {
		if mt := msr.GetMetric(model.EndStep.Name); mt != nil && mt.GetTotalDuration() > 0 {
			return mt.GetTotalDuration().Round(time.Millisecond)
		}
	}

	return res.Duration().Round(time.Millisecond)
}

func column(values []string, styles []lipgloss.Style) string {
	width := 0
	for _, val := range values {
		width = max(width, lipgloss.Width(val))
	}

	cells := make([]string, len(values))
	for i, val := range values {
		cells[i] = styles[i].Width(width + 2).Render(val)
	}

	return lipgloss.JoinVertical(lipgloss.Left, cells...)
}

// renderSummary writes one line per step, launched or not, then the outcome of the run.
func renderSummary(wrt io.Writer, steps []*model.StepInfo, res *pipeline.Result, msr measure.Measure) {
	styles := newSummaryStyles(wrt)
	rows := summaryRows(steps, res, msr, styles)

	headers := []string{"#", "STEP", "STATE", "EXIT", "DURATION"}
	cols := make([][]string, len(headers))
	colStyles := make([][]lipgloss.Style, len(headers))

	for i, header := range headers {
		cols[i] = append(cols[i], header)
		colStyles[i] = append(colStyles[i], styles.header)
	}

	for _, row := range rows {
		for i, val := range []string{row.index, row.name, row.state, row.exit, row.duration} {
			cols[i] = append(cols[i], val)

			style := styles.cell
			if i == 2 {
				style = row.style
			}

			colStyles[i] = append(colStyles[i], style)
		}
	}

	rendered := make([]string, len(cols))
	for i := range cols {
		rendered[i] = column(cols[i], colStyles[i])
	}

	table := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	var footer string

	if res.Succeeded() {
		footer = styles.succeeded.Render(fmt.Sprintf("run %s succeeded in %s", res.RunID, runDuration(msr, res)))
	} else {
		footer = styles.failed.Render(fmt.Sprintf("run %s failed: %s", res.RunID, res.Err()))
	}

	fmt.Fprintln(wrt, table)
	fmt.Fprintln(wrt, footer)
}
