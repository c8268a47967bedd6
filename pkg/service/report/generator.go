// Package report renders risk assessment results as PDF documents.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/tyche/pkg/domain/model/config"
	"github.com/secmon-lab/tyche/pkg/domain/types"
)

// Generator renders PDF risk assessment reports into a configured directory
type Generator struct {
	cfg config.ReportConfig
}

func New(cfg config.ReportConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Generate writes a PDF report for the given data and returns the file path
func (g *Generator) Generate(ctx context.Context, data *Data) (string, error) {
	if data == nil || data.Metrics == nil {
		return "", goerr.New("report data requires risk metrics")
	}

	if err := os.MkdirAll(g.cfg.OutputDir, 0755); err != nil {
		return "", goerr.Wrap(err, "failed to create report directory", goerr.V("dir", g.cfg.OutputDir))
	}

	path := filepath.Join(g.cfg.OutputDir, fmt.Sprintf("risk_assessment_%s.pdf", uuid.NewString()))

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Confidential - Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	g.writeTitle(pdf, data)
	g.writeSummary(pdf, data)
	g.writeParameters(pdf, data)
	g.writeMetrics(pdf, data)
	if data.Simulation != nil {
		g.writeSimulation(pdf, data)
	}
	g.writeRecommendations(pdf, data)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", goerr.Wrap(err, "failed to write report", goerr.V("path", path))
	}

	return path, nil
}

// Prune removes the oldest report files beyond the configured retention
// count. Best effort: individual removal failures are returned but a partial
// prune is acceptable.
func (g *Generator) Prune(ctx context.Context) error {
	if g.cfg.KeepFiles <= 0 {
		return nil
	}

	entries, err := os.ReadDir(g.cfg.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return goerr.Wrap(err, "failed to read report directory", goerr.V("dir", g.cfg.OutputDir))
	}

	type reportFile struct {
		name string
		mod  int64
	}
	var files []reportFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, reportFile{name: entry.Name(), mod: info.ModTime().UnixNano()})
	}

	if len(files) <= g.cfg.KeepFiles {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod < files[j].mod })

	for _, f := range files[:len(files)-g.cfg.KeepFiles] {
		if err := os.Remove(filepath.Join(g.cfg.OutputDir, f.name)); err != nil {
			return goerr.Wrap(err, "failed to remove old report", goerr.V("name", f.name))
		}
	}

	return nil
}

func (g *Generator) writeTitle(pdf *fpdf.Fpdf, data *Data) {
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(26, 26, 26)
	title := g.cfg.Title
	if title == "" {
		title = "Cybersecurity Risk Assessment Report"
	}
	pdf.MultiCell(0, 12, title, "", "C", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, "Generated: "+data.GeneratedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	if g.cfg.Organization != "" {
		pdf.CellFormat(0, 6, "Prepared for: "+g.cfg.Organization, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (g *Generator) writeSummary(pdf *fpdf.Fpdf, data *Data) {
	g.heading(pdf, "Executive Summary")

	m := data.Metrics
	summary := fmt.Sprintf(
		"This risk assessment quantifies cybersecurity risk using the FAIR "+
			"(Factor Analysis of Information Risk) methodology. The analysis "+
			"estimates an Annual Loss Expectancy (ALE) of $%s with a risk level of %s.",
		money(m.AnnualLossExpectancy), m.RiskLevel)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, summary, "", "L", false)
	pdf.Ln(4)
}

func (g *Generator) writeParameters(pdf *fpdf.Fpdf, data *Data) {
	g.heading(pdf, "Risk Assessment Parameters")

	m := data.Metrics
	g.table(pdf, [][2]string{
		{"Parameter", "Value"},
		{"Asset Value", "$" + money(m.AssetValue)},
		{"Threat Event Frequency (per year)", fmt.Sprintf("%.2f", m.ThreatEventFrequency)},
		{"Vulnerability (probability)", fmt.Sprintf("%.2f%%", m.Vulnerability*100)},
		{"Loss Magnitude (per event)", "$" + money(m.LossMagnitude)},
	})
}

func (g *Generator) writeMetrics(pdf *fpdf.Fpdf, data *Data) {
	g.heading(pdf, "Risk Calculation Results")

	m := data.Metrics
	g.table(pdf, [][2]string{
		{"Metric", "Value"},
		{"Loss Event Frequency (LEF)", fmt.Sprintf("%.3f", m.LossEventFrequency)},
		{"Single Loss Expectancy (SLE)", "$" + money(m.SingleLossExpectancy)},
		{"Annual Loss Expectancy (ALE)", "$" + money(m.AnnualLossExpectancy)},
		{"Risk Exposure", fmt.Sprintf("%.2f%% of asset value", m.RiskExposurePercentage)},
		{"Risk Level", fmt.Sprintf("%s (%s)", m.RiskLevel, m.RiskLevel.Priority())},
	})
}

func (g *Generator) writeSimulation(pdf *fpdf.Fpdf, data *Data) {
	g.heading(pdf, "Monte Carlo Simulation")

	s := data.Simulation
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf(
		"The distribution below aggregates %d independently sampled scenarios.",
		s.Iterations), "", "L", false)
	pdf.Ln(2)

	g.table(pdf, [][2]string{
		{"Statistic", "Value"},
		{"Mean ALE", "$" + money(s.MeanALE)},
		{"Median ALE", "$" + money(s.MedianALE)},
		{"Standard Deviation", "$" + money(s.StdDev)},
		{"Minimum ALE", "$" + money(s.MinALE)},
		{"Maximum ALE", "$" + money(s.MaxALE)},
		{"95% Confidence Interval", fmt.Sprintf("$%s - $%s", money(s.Confidence95.Lower), money(s.Confidence95.Upper))},
	})

	g.table(pdf, [][2]string{
		{"Percentile", "ALE"},
		{"10th", "$" + money(s.Percentiles.P10)},
		{"25th", "$" + money(s.Percentiles.P25)},
		{"50th", "$" + money(s.Percentiles.P50)},
		{"75th", "$" + money(s.Percentiles.P75)},
		{"90th", "$" + money(s.Percentiles.P90)},
		{"95th", "$" + money(s.Percentiles.P95)},
		{"99th", "$" + money(s.Percentiles.P99)},
	})

	d := s.RiskDistribution
	g.table(pdf, [][2]string{
		{"Risk Level", "Scenarios"},
		{"Low", fmt.Sprintf("%d", d.Low)},
		{"Medium", fmt.Sprintf("%d", d.Medium)},
		{"High", fmt.Sprintf("%d", d.High)},
		{"Critical", fmt.Sprintf("%d", d.Critical)},
	})
}

func (g *Generator) writeRecommendations(pdf *fpdf.Fpdf, data *Data) {
	g.heading(pdf, "Recommendations")

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, recommendationFor(data.Metrics.RiskLevel), "", "L", false)
}

func recommendationFor(level types.RiskLevel) string {
	switch level {
	case types.RiskLevelLow:
		return "Risk is within acceptable bounds. Maintain current controls and " +
			"reassess on the regular review cycle."
	case types.RiskLevelMedium:
		return "Plan remediation within the next quarter. Prioritize controls that " +
			"reduce vulnerability, as they scale the loss event frequency directly."
	case types.RiskLevelHigh:
		return "Schedule remediation within 30 days. Consider compensating controls " +
			"to reduce loss magnitude per event while root causes are addressed."
	case types.RiskLevelCritical:
		return "Immediate action required. Escalate to security leadership and " +
			"evaluate whether risk transfer (e.g. cyber insurance) is warranted " +
			"alongside technical remediation."
	default:
		return "Risk level could not be determined."
	}
}

func (g *Generator) heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(26, 26, 26)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func (g *Generator) table(pdf *fpdf.Fpdf, rows [][2]string) {
	const keyWidth, valueWidth = 90.0, 70.0

	for i, row := range rows {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetFillColor(128, 128, 128)
			pdf.SetTextColor(245, 245, 245)
		} else {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetFillColor(255, 255, 255)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.CellFormat(keyWidth, 8, row[0], "1", 0, "L", i == 0, 0, "")
		pdf.CellFormat(valueWidth, 8, row[1], "1", 1, "L", i == 0, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)
}

// money formats a currency amount with thousands separators and two decimals
func money(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}
