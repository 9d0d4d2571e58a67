package interfaces

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	analytics "solar-insights/internal/analytics/domain"
)

// BuildUsageReportPDF renders a usage analytics report as a minimal PDF.
func BuildUsageReportPDF(res *analytics.Result, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Electricity Usage Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.Cell(0, 6, fmt.Sprintf("Solar today (kWh): %.2f", res.Daily.SolarConsumption))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Grid today (kWh): %.2f", res.Daily.GridConsumption))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Exported today (kWh): %.2f", res.Daily.ReturnToGrid))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Self sufficiency (7d): %.2f%%", res.SelfSufficiency.Score))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Cost per kWh (7d): %.4f", res.CostPerKWh.Overall))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Projected monthly cost: %.2f", res.MonthlyProjection.ProjectedTotal))
	pdf.Ln(8)

	// Last 3 days table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Solar (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Grid (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Export (kWh)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, day := range res.Last3Days {
		pdf.CellFormat(40, 6, day.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", day.SolarConsumption), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", day.GridConsumption), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", day.ReturnToGrid), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Tariff bucket", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Consumption (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Cost", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, bucket := range sortedBuckets(res.Hourly.TimeOfUse) {
		totals := res.Hourly.TimeOfUse[bucket]
		pdf.CellFormat(50, 6, bucket, "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", totals.Consumption), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", totals.Cost), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildUsageReportXLSX renders a usage analytics report as a minimal XLSX.
func BuildUsageReportXLSX(res *analytics.Result, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	daysSheet := "days"
	bucketsSheet := "buckets"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(daysSheet)
	f.NewSheet(bucketsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Electricity Usage Report")
	_ = f.SetCellValue(summarySheet, "A2", "Generated")
	_ = f.SetCellValue(summarySheet, "B2", generatedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A4", "Solar today (kWh)")
	_ = f.SetCellValue(summarySheet, "B4", res.Daily.SolarConsumption)
	_ = f.SetCellValue(summarySheet, "A5", "Grid today (kWh)")
	_ = f.SetCellValue(summarySheet, "B5", res.Daily.GridConsumption)
	_ = f.SetCellValue(summarySheet, "A6", "Exported today (kWh)")
	_ = f.SetCellValue(summarySheet, "B6", res.Daily.ReturnToGrid)
	_ = f.SetCellValue(summarySheet, "A7", "Solar this month (kWh)")
	_ = f.SetCellValue(summarySheet, "B7", res.Monthly.SolarConsumption)
	_ = f.SetCellValue(summarySheet, "A8", "Self sufficiency (7d, %)")
	_ = f.SetCellValue(summarySheet, "B8", res.SelfSufficiency.Score)
	_ = f.SetCellValue(summarySheet, "A9", "Cost per kWh (7d)")
	_ = f.SetCellValue(summarySheet, "B9", res.CostPerKWh.Overall)
	_ = f.SetCellValue(summarySheet, "A10", "Projected monthly cost")
	_ = f.SetCellValue(summarySheet, "B10", res.MonthlyProjection.ProjectedTotal)
	_ = f.SetCellValue(summarySheet, "A11", "Export opportunity cost (7d)")
	_ = f.SetCellValue(summarySheet, "B11", res.ReturnToGridAnalysis.OpportunityCost)
	_ = f.SetCellValue(summarySheet, "A12", "Savings this month")
	_ = f.SetCellValue(summarySheet, "B12", res.Savings.MonthToDate)

	_ = f.SetCellValue(daysSheet, "A1", "Day")
	_ = f.SetCellValue(daysSheet, "B1", "Solar (kWh)")
	_ = f.SetCellValue(daysSheet, "C1", "Grid (kWh)")
	_ = f.SetCellValue(daysSheet, "D1", "Export (kWh)")
	_ = f.SetCellValue(daysSheet, "E1", "Cost")
	for i, day := range res.Last3Days {
		row := i + 2
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("A%d", row), day.Date)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("B%d", row), day.SolarConsumption)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("C%d", row), day.GridConsumption)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("D%d", row), day.ReturnToGrid)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("E%d", row), day.SolarCharge+day.GridCharge)
	}

	_ = f.SetCellValue(bucketsSheet, "A1", "Tariff bucket")
	_ = f.SetCellValue(bucketsSheet, "B1", "Consumption (kWh)")
	_ = f.SetCellValue(bucketsSheet, "C1", "Cost")
	for i, bucket := range sortedBuckets(res.Hourly.TimeOfUse) {
		row := i + 2
		totals := res.Hourly.TimeOfUse[bucket]
		_ = f.SetCellValue(bucketsSheet, fmt.Sprintf("A%d", row), bucket)
		_ = f.SetCellValue(bucketsSheet, fmt.Sprintf("B%d", row), totals.Consumption)
		_ = f.SetCellValue(bucketsSheet, fmt.Sprintf("C%d", row), totals.Cost)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedBuckets(buckets map[string]analytics.BucketTotals) []string {
	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
