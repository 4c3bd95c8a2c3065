package libs

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"farm-shop/models"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin    = 15.0
	pdfLineH     = 7.0
	invoiceTitle = "INVOICE"
)

// PDFRenderer draws order invoices and printable recipe cards using the
// built-in Helvetica font.
type PDFRenderer struct {
	shopName string
	currency string
	loc      *time.Location
}

func NewPDFRenderer(shopName, currency string, loc *time.Location) *PDFRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &PDFRenderer{shopName: shopName, currency: currency, loc: loc}
}

func (r *PDFRenderer) newDocument(title string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator(r.shopName, true)
	pdf.AddPage()
	// Core fonts are cp1252; translate so names with accents still render.
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func (r *PDFRenderer) output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) RenderInvoice(order *models.Order) ([]byte, error) {
	pdf, tr := r.newDocument(fmt.Sprintf("%s #%d", invoiceTitle, order.OrderID))

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(r.shopName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s #%d", invoiceTitle, order.OrderID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Date: "+order.Created.In(r.loc).Format("02/01/2006 03:04 PM"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{95, 20, 32.5, 32.5}
	headers := []string{"Product", "Qty", "Price", "Total"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 240, 225)
	for i, h := range headers {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], pdfLineH, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(widths[0], pdfLineH, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], pdfLineH, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], pdfLineH, r.money(item.Price.StringFixed(2)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], pdfLineH, r.money(item.Total.StringFixed(2)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	labelW := widths[0] + widths[1] + widths[2]
	summary := [][2]string{
		{"Subtotal", r.money(order.TotalPaid.StringFixed(2))},
		{"Delivery (" + tr(order.ShippingZone) + ")", r.money(order.ShippingCost.StringFixed(2))},
		{"TOTAL", r.money(order.Total().StringFixed(2))},
	}
	for i, row := range summary {
		style := ""
		if i == len(summary)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, pdfLineH, row[0], "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], pdfLineH, row[1], "1", 1, "R", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Thank you for your order! Payment and delivery are confirmed over WhatsApp.", "", "L", false)

	return r.output(pdf)
}

func (r *PDFRenderer) RenderRecipe(recipe *models.Recipe) ([]byte, error) {
	pdf, tr := r.newDocument(recipe.Title)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(recipe.Title), "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Prep %d min | Cook %d min | Total %d min | Serves %d | %s",
		recipe.PrepTime, recipe.CookTime, recipe.TotalTime(), recipe.Servings,
		models.DifficultyLabel(recipe.Difficulty)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	if recipe.Description != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(recipe.Description), "", "L", false)
		pdf.Ln(3)
	}

	if len(recipe.Ingredients) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Ingredients", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, ing := range recipe.Ingredients {
			line := "- " + strings.TrimSpace(ing.Quantity+" "+ing.Product.Name)
			if ing.Notes != "" {
				line += " (" + ing.Notes + ")"
			}
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Instructions", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(recipe.Instructions), "", "L", false)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, tr(r.shopName), "", 1, "L", false, 0, "")

	return r.output(pdf)
}

func (r *PDFRenderer) money(amount string) string {
	return r.currency + " " + amount
}
