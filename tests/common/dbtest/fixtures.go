//go:build integration || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestHotel(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	hotelID := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO hotels (id, name) VALUES ($1, $2)", hotelID, name)
	require.NoError(t, err)
	return hotelID
}

func CreateTestRoomType(t *testing.T, db DBLike, hotelID uuid.UUID, name string, units, capacityPerUnit int) uuid.UUID {
	t.Helper()

	roomTypeID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO room_types (id, hotel_id, name, total_units, nightly_rate_cents, capacity_per_unit)
		 VALUES ($1, $2, $3, $4, 12000, $5)`,
		roomTypeID, hotelID, name, units, capacityPerUnit)
	require.NoError(t, err)
	return roomTypeID
}

// CountActiveUnits sums the units active reservations hold on roomTypeID.
func CountActiveUnits(t *testing.T, db DBLike, roomTypeID uuid.UUID) int {
	t.Helper()

	var units int
	err := db.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(li.quantity), 0)
		 FROM reservation_line_items li
		 JOIN reservations r ON r.id = li.reservation_id
		 WHERE li.room_type_id = $1 AND r.status = 'active'`,
		roomTypeID).Scan(&units)
	require.NoError(t, err)
	return units
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
