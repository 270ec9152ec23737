// Package rendering renders royalty statements into their document artifacts.
package rendering

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	royaltyapp "github.com/inkhouse/backend/internal/application/royalty"
	"github.com/inkhouse/backend/internal/domain/royalty"
)

var hundred = decimal.NewFromInt(100)

// Ensure PDFStatementRenderer implements StatementRenderer
var _ royaltyapp.StatementRenderer = (*PDFStatementRenderer)(nil)

// PDFStatementRenderer renders a royalty statement as a PDF document.
type PDFStatementRenderer struct{}

// NewPDFStatementRenderer creates a new PDFStatementRenderer
func NewPDFStatementRenderer() *PDFStatementRenderer {
	return &PDFStatementRenderer{}
}

// Render produces the statement PDF bytes
func (r *PDFStatementRenderer) Render(stmt *royalty.Statement, author *royalty.Author) ([]byte, error) {
	calc := stmt.Calculation
	currency := string(calc.Currency)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Royalty Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", author.Name))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s",
		stmt.PeriodStart.Format("2006-01-02"), stmt.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Statement: %s", stmt.GetID()))
	pdf.Ln(8)

	for _, fb := range calc.FormatBreakdowns {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, string(fb.Format))
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Net quantity: %d (sold %d, returned %d)",
			fb.NetQuantity, fb.GrossQuantity, fb.ReturnsQuantity))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Net revenue (%s): %s", currency, fb.NetRevenue.StringFixed(2)))
		pdf.Ln(6)

		// Tier table
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 6, "Tier", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Rate", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Quantity", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Revenue", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Royalty", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, tb := range fb.TierBreakdowns {
			bound := "up"
			if tb.TierMaxQuantity != nil {
				bound = fmt.Sprintf("%d", *tb.TierMaxQuantity)
			}
			pdf.CellFormat(40, 6, fmt.Sprintf("%d - %s", tb.TierMinQuantity, bound), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, tb.TierRate.Mul(hundred).StringFixed(1)+"%", "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprintf("%d", tb.QuantityInTier), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, tb.RevenueInTier.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, tb.RoyaltyEarned.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}

		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Format royalty (%s): %s", currency, fb.FormatRoyalty.StringFixed(2)))
		pdf.Ln(8)
	}

	rec := calc.AdvanceRecoupment
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Summary")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Gross royalty (%s): %s", currency, calc.GrossRoyalty.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Original advance: %s", rec.OriginalAdvance.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Previously recouped: %s", rec.PreviouslyRecouped.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Recouped this period: %s", rec.ThisPeriodRecoupment.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Remaining advance: %s", rec.RemainingAdvance.StringFixed(2)))
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Net payable (%s): %s", currency, calc.NetPayable.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
