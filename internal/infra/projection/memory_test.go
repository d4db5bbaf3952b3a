//go:build unit

package projection_test

import (
	"context"
	"testing"
	"time"

	infraprojection "hotel-booking/internal/infra/projection"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/projection"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := infraprojection.NewMemoryStore()
	id := uuid.New()

	_, err := s.Get(ctx, id)
	assert.True(t, errs.Is(err, projection.ErrSnapshotMissing))

	snap := projection.Snapshot{RoomTypeID: id, TotalUnits: 4, FreeUnits: 1, RefreshedAt: time.Now().UTC()}
	require.NoError(t, s.Put(ctx, snap))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, snap, *got)
}
