package greenleaf

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"leafdesk/models"
)

type SlipData struct {
	FactoryName string
	Leaf        models.GreenLeaf
	Location    *time.Location
}

func slipFileID(trNo string) string {
	var b strings.Builder
	for _, r := range trNo {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "slip"
	}
	return b.String()
}

func renderDeliverySlipPDF(slip SlipData, printedAt time.Time) ([]byte, error) {
	trNo := strings.TrimSpace(slip.Leaf.TrNo.String())
	if trNo == "" {
		return nil, fmt.Errorf("transaction has no number")
	}
	loc := slip.Location
	if loc == nil {
		loc = time.Local
	}
	barcodePNG, err := renderCode128PNG(trNo, 1200, 240)
	if err != nil {
		return nil, err
	}

	factoryName := strings.TrimSpace(slip.FactoryName)
	if factoryName == "" {
		factoryName = "Tea Factory"
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Green Leaf Delivery Slip "+trNo, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	margin := 10.0
	w0 := pageW - 2*margin
	pdf.SetLineWidth(0.3)
	pdf.Rect(margin, margin, w0, pageH-2*margin, "")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetFont("Helvetica", "B", fitFontSizeForWidth(pdf, "Helvetica", "B", 20, 11, factoryName, w0-8))
	pdf.SetXY(margin, margin+4)
	pdf.CellFormat(w0, 10, factoryName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(margin)
	pdf.CellFormat(w0, 6, "GREEN LEAF DELIVERY SLIP", "", 1, "C", false, 0, "")

	status := "PENDING"
	if slip.Leaf.Completed() {
		status = "COMPLETE"
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetX(margin)
	pdf.CellFormat(w0, 5, "Status: "+status, "", 1, "C", false, 0, "")

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "green-leaf-barcode-" + slipFileID(trNo)
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	imgW := w0 - 30
	imgH := 20.0
	y := pdf.GetY() + 3
	pdf.ImageOptions(imageName, (pageW-imgW)/2, y, imgW, imgH, false, opt, 0, "")
	pdf.SetXY(margin, y+imgH+1)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(w0, 6, trNo, "", 1, "C", false, 0, "")

	pdf.Ln(2)
	labelW := 38.0
	valueW := w0 - labelW - 8
	rowH := 5.6
	for _, row := range detailRows(slip.Leaf, loc) {
		value := strings.TrimSpace(row.Value)
		if value == "" {
			value = "-"
		}
		pdf.SetX(margin + 4)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, rowH, row.Label, "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetFont("Helvetica", "", fitFontSizeForWidth(pdf, "Helvetica", "", 9, 6, value, valueW))
		pdf.CellFormat(valueW, rowH, value, "B", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(margin, pageH-margin-7)
	pdf.CellFormat(w0, 5, "Printed "+printedAt.In(loc).Format(DisplayLayout), "", 0, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
