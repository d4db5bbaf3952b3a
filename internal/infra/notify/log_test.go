//go:build unit

package notify_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"hotel-booking/internal/infra/notify"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))
	id := uuid.New()

	err := n.Notify(context.Background(), shared.BookingEvent{
		Kind:          shared.EventReservationCommitted,
		ReservationID: id,
		GuestID:       uuid.New(),
		CheckIn:       time.Date(2030, 3, 1, 14, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2030, 3, 3, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"kind":"reservation_committed"`)
	assert.Contains(t, buf.String(), id.String())
}
