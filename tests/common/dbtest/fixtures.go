//go:build unit || e2e

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

var (
	SeedRoomID  = uuid.MustParse("6b0f8f4e-0c1e-4c39-9a55-2d1f0d6f0101")
	SeedRoomID2 = uuid.MustParse("6b0f8f4e-0c1e-4c39-9a55-2d1f0d6f0102")
)

// CreateTestUser inserts a guest with the given tier (STANDARD or VIP).
func CreateTestUser(t *testing.T, db DBLike, email, tier string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()
	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, tier) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING",
		userID, email, tier)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID))
	}

	return userID
}

func CreateTestRoom(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	roomID := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO rooms (id, name) VALUES ($1, $2)", roomID, name)
	require.NoError(t, err)
	return roomID
}

// CreateConfirmedOrder books roomID for [checkIn, checkOut) directly, bypassing detection.
func CreateConfirmedOrder(t *testing.T, db DBLike, roomID, userID uuid.UUID, checkIn, checkOut string) uuid.UUID {
	t.Helper()

	orderID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO orders (id, room_id, user_id, check_in, check_out, guest_count, status, created_at)
		VALUES ($1, $2, $3, $4::date, $5::date, 2, 'CONFIRMED', now())`,
		orderID, roomID, userID, checkIn, checkOut)
	require.NoError(t, err)
	return orderID
}

// CancelOrder frees an order as the order system does before it reports the window.
func CancelOrder(t *testing.T, db DBLike, orderID uuid.UUID) {
	t.Helper()

	tag, err := db.Exec(context.Background(), `
		UPDATE orders SET status = 'CANCELLED', updated_at = now()
		WHERE id = $1 AND status IN ('PENDING', 'CONFIRMED')`, orderID)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

// ExpireNotification moves an entry's hold into the past so the reaper picks it up.
func ExpireNotification(t *testing.T, db DBLike, entryID uuid.UUID) {
	t.Helper()

	tag, err := db.Exec(context.Background(), `
		UPDATE waiting_list SET expires_at = now() - interval '1 minute'
		WHERE id = $1 AND status = 'NOTIFIED'`, entryID)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

// SeedReferenceData inserts the fixed rooms every e2e test can rely on.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO rooms (id, name) VALUES
		    ($1, 'Seed Room 101'),
		    ($2, 'Seed Room 102')
		ON CONFLICT (id) DO NOTHING;
	`, SeedRoomID, SeedRoomID2)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
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
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
