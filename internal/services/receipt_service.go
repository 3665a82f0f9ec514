package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"viajes/internal/notifications"
	"viajes/internal/utils"
)

// ReceiptService renders the PDF receipt attached to reservation emails.
type ReceiptService struct {
	Now func() time.Time
}

func (s ReceiptService) Render(evt notifications.Event) ([]byte, string, error) {
	issued := time.Now()
	if s.Now != nil {
		issued = s.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Comprobante de Operación"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr("Comprobante de Operación"))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Código      : RES-%d", evt.ReservationID),
		fmt.Sprintf("Usuario     : %s", safe(evt.UserEmail, "-")),
		fmt.Sprintf("Viaje       : %s - %s", safe(evt.Destino, "-"), safe(evt.Fecha, "-")),
		fmt.Sprintf("Importe     : %s", utils.FormatMoney(evt.Precio)),
		fmt.Sprintf("Estado      : %s", strings.ToUpper(string(evt.Kind))),
		fmt.Sprintf("Emitido     : %s", utils.FormatDateTime(issued)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, tr("Gracias por usar Viajes Seguros S.A."), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("comprobante_%d_%s.pdf", evt.ReservationID, kindSlug(evt.Kind))
	return buf.Bytes(), filename, nil
}

func kindSlug(kind notifications.Kind) string {
	switch kind {
	case notifications.KindCancelacion:
		return "cancelacion"
	case notifications.KindReserva:
		return "reserva"
	default:
		return "evento"
	}
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
