package export

import (
	"fmt"

	"callvista/internal/dashboard"

	"github.com/xuri/excelize/v2"
)

// WriteReport renders a dashboard report as an XLSX workbook: one sheet per
// report section, values already rounded upstream.
func WriteReport(r dashboard.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeOverview(f, r); err != nil {
		return nil, err
	}
	if err := writeCosts(f, r); err != nil {
		return nil, err
	}
	if err := writeAgents(f, r); err != nil {
		return nil, err
	}
	if err := writeDisconnections(f, r); err != nil {
		return nil, err
	}

	// Drop the default sheet so Overview opens first.
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeOverview(f *excelize.File, r dashboard.Report) error {
	const sheet = "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Tenant", r.TenantID},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Total calls", r.Metrics.TotalCalls},
		{"Pickup rate (%)", r.Metrics.PickupRate},
		{"Success rate (%)", r.Metrics.SuccessRate},
		{"Transfer rate (%)", r.Metrics.TransferRate},
		{"Voicemail rate (%)", r.Metrics.VoicemailRate},
		{"Failed calls", r.Metrics.Failed.TotalFailed},
		{"Total cost", r.Costs.TotalCost},
	}
	return writeRows(f, sheet, rows)
}

func writeCosts(f *excelize.File, r dashboard.Report) error {
	const sheet = "Costs"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Country", "Cost", "Calls", "Avg cost", "% of total"},
	}
	for _, c := range r.Costs.ByCountry {
		name := c.Name
		if name == "" {
			name = c.Code
		}
		rows = append(rows, []any{name, c.Cost, c.Calls, c.AvgCost, c.Pct})
	}
	rows = append(rows, []any{})
	rows = append(rows, []any{"Provider cost", r.Costs.ProviderCost, "", "", r.Costs.ProviderPct})
	rows = append(rows, []any{"Call cost", r.Costs.MinuteCost, "", "", r.Costs.MinutePct})
	return writeRows(f, sheet, rows)
}

func writeAgents(f *excelize.File, r dashboard.Report) error {
	const sheet = "Agents"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	perf := r.Metrics.AgentPerformance
	header := make([]any, 0, len(perf.Agents)+1)
	header = append(header, "Metric")
	for _, a := range perf.Agents {
		header = append(header, a)
	}
	rows := [][]any{header}
	for _, row := range perf.Rows {
		line := make([]any, 0, len(row.Values)+1)
		line = append(line, row.Metric)
		for _, v := range row.Values {
			line = append(line, v)
		}
		rows = append(rows, line)
	}
	return writeRows(f, sheet, rows)
}

func writeDisconnections(f *excelize.File, r dashboard.Report) error {
	const sheet = "Disconnections"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Reason", "Category", "Count", "% of total"},
	}
	for _, d := range r.Metrics.Disconnection.Reasons {
		rows = append(rows, []any{d.Reason, string(d.Category), d.Count, d.Percentage})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}
