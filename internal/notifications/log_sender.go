package notifications

import (
	"context"
	"fmt"

	"viajes/internal/utils"
)

// LogSender only records that a receipt is ready. Used when no delivery
// channel is configured.
type LogSender struct{}

func (LogSender) Name() string { return "log" }

func (LogSender) Send(_ context.Context, evt Event, receipt Receipt) error {
	utils.LogEvent("", "notify", "receipt_ready", fmt.Sprintf("reservation_id=%d kind=%s email=%s path=%s bytes=%d",
		evt.ReservationID, evt.Kind, evt.UserEmail, receipt.Path, len(receipt.PDF)))
	return nil
}
