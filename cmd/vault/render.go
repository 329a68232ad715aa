package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/JaimeStill/filevault/internal/client"
	"github.com/JaimeStill/filevault/internal/workflow"
	"github.com/JaimeStill/filevault/pkg/formatting"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// renderRecord lays one record out as field/value rows.
func renderRecord(r *client.Record) string {
	rows := [][]string{
		{"Record", strconv.FormatInt(r.ID, 10)},
		{"Filing status", formatting.Text(r.FilingStatus)},
		{"W-2 wages", formatting.Amount(r.W2Wages)},
		{"Total deductions", formatting.Amount(r.TotalDeductions)},
		{"IRA distributions", formatting.Amount(r.IRADistributions)},
		{"Capital gain/loss", formatting.Amount(r.CapitalGainLoss)},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderRecords(records []client.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			formatting.Text(r.FilingStatus),
			formatting.Amount(r.W2Wages),
			formatting.Amount(r.TotalDeductions),
			formatting.Amount(r.IRADistributions),
			formatting.Amount(r.CapitalGainLoss),
		})
	}
	return renderTable(
		[]string{"ID", "Filing status", "W-2 wages", "Deductions", "IRA", "Capital gain/loss"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func renderDescriptor(d client.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %-16s %s\n", "Status:", d.Status)
	fmt.Fprintf(&b, "  %-16s %s\n", "Correlation ID:", d.CorrelationID)
	fmt.Fprintf(&b, "  %-16s %s", "Preview:", d.PreviewURL)
	return b.String()
}

// renderSnapshot renders the part of s that is currently on screen: the
// active phase, followed by the history view when it is open.
func renderSnapshot(s workflow.Snapshot) string {
	var sections []string

	switch s.Phase {
	case workflow.AwaitingUpload:
		sections = append(sections, renderUpload(s.Upload))
	case workflow.PendingReview:
		if s.Review != nil {
			sections = append(sections, renderReview(*s.Review))
		}
	case workflow.ResultReady:
		if s.Result != nil {
			sections = append(sections, renderResult(*s.Result))
		}
	}

	if s.History.Open {
		sections = append(sections, renderHistory(s.History))
	}

	return strings.Join(sections, "\n")
}

func renderUpload(v workflow.UploadView) string {
	switch v.Status {
	case workflow.Loading:
		return fmt.Sprintf("Uploading %s...", v.File)
	case workflow.Failed:
		return v.Message
	default:
		return "Ready for upload."
	}
}

func renderReview(v workflow.ReviewView) string {
	lines := []string{"Pending review:", renderDescriptor(v.Descriptor)}
	switch v.Status {
	case workflow.Loading:
		lines = append(lines, "Approving...")
	case workflow.Failed:
		lines = append(lines, v.Message+" Approve again or reject.")
	default:
		lines = append(lines, "Approve or reject the document.")
	}
	return strings.Join(lines, "\n")
}

func renderResult(v workflow.ResultView) string {
	switch v.Status {
	case workflow.Loading:
		return "Loading extracted record..."
	case workflow.Loaded:
		if v.Record == nil {
			return workflow.MsgRecordUnavailable
		}
		return "Extracted record:\n" + renderRecord(v.Record)
	case workflow.Failed:
		if v.Retryable {
			return v.Message + " Use retry to try again."
		}
		return v.Message
	default:
		return ""
	}
}

func renderHistory(v workflow.HistoryView) string {
	switch v.Status {
	case workflow.Loading:
		return "Loading records..."
	case workflow.Failed:
		return v.Message
	case workflow.Loaded:
		if len(v.Records) == 0 {
			return v.Message
		}
		return "Records:\n" + renderRecords(v.Records)
	default:
		return ""
	}
}

func isInteractive(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
