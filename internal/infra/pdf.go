package infra

// pdf.go renders an A5 packing slip for an order using go-pdf/fpdf:
//   - order code, id and timestamp
//   - shipping contact
//   - line table (product id, pack, quantity, unit price, total)
//   - gift tiers attached to each line
//   - order amount and shipping amount

import (
	"bytes"
	"fmt"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateOrderSlip renders the packing slip for order and returns the PDF bytes.
func GenerateOrderSlip(order *model.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 16

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Packing Slip", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Order %s (%s)", order.OrderCode, order.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, order.CreatedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Shipping ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	if order.ShippingName != nil {
		pdf.CellFormat(contentW, 4, "Ship to: "+*order.ShippingName, "", 1, "L", false, 0, "")
	}
	if order.ShippingPhone != nil {
		pdf.CellFormat(contentW, 4, "Phone: "+*order.ShippingPhone, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 4, "Payment: "+order.PaymentStatus, "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(2)

	// ── Lines ────────────────────────────────────────────────────────────────
	col := []float64{contentW * 0.22, contentW * 0.12, contentW * 0.14, contentW * 0.24, contentW * 0.28}
	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range []string{"Product", "Pack", "Qty", "Price", "Total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(col[i], 5, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	for _, d := range order.Details {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(col[0], 5, fmt.Sprintf("#%d", d.ProductID), "", 0, "L", false, 0, "")
		pdf.CellFormat(col[1], 5, fmt.Sprintf("%d", d.Pack), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[2], 5, fmt.Sprintf("%d", d.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[3], 5, d.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[4], 5, d.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "I", 7)
		for _, g := range d.Gifts.Tiers() {
			if g.Quantity == 0 {
				continue
			}
			pdf.CellFormat(col[0], 4, "", "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW-col[0], 4, fmt.Sprintf("gift %s x%d", g.Tier, g.Quantity), "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(2)
	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := contentW - col[4]
	pdf.SetFont("Helvetica", "", 8)
	if !order.ShippingAmount.IsZero() {
		pdf.CellFormat(labelW, 5, "Shipping:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col[4], 5, order.ShippingAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelW, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col[4], 6, order.OrderAmount.StringFixed(2), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render slip: %w", err)
	}
	return buf.Bytes(), nil
}
