package exports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// renderInventoryPDF lays out the full inventory as a landscape table, one
// row per item.
func renderInventoryPDF(rows []inventoryRow, clinicName string, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Inventory Report", false)
	pdf.SetAutoPageBreak(true, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Inventory Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	subtitle := generatedAt.Format("02/01/2006 15:04")
	if clinicName != "" {
		subtitle = clinicName + " - " + subtitle
	}
	pdf.CellFormat(0, 6, subtitle, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	headers := []string{"Brand", "Product", "Code", "Qty", "UOM", "Price", "Total", "Vendor", "Category", "Expires", "Location"}
	widths := []float64{26, 44, 22, 12, 14, 18, 20, 30, 26, 22, 36}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	writeHeader()

	_, pageH := pdf.GetPageSize()
	for _, r := range rows {
		if pdf.GetY() > pageH-20 {
			pdf.AddPage()
			writeHeader()
		}
		cells := []string{
			r.Brand,
			r.Product,
			r.Code,
			toString(r.Qty),
			r.UOM,
			r.UnitPrice,
			r.TotalValue,
			r.Vendor,
			r.Category,
			r.Expiry,
			r.Location,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, truncateCell(pdf, c, widths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rows) == 0 {
		pdf.Ln(4)
		pdf.CellFormat(0, 8, "No items in inventory.", "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.Ln(4)
	pdf.CellFormat(0, 5, fmt.Sprintf("%d items", len(rows)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncateCell(pdf *gofpdf.Fpdf, s string, width float64) string {
	for pdf.GetStringWidth(s) > width-2 && len(s) > 1 {
		s = s[:len(s)-1]
	}
	return s
}
