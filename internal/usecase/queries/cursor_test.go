//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"hotel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursor(t *testing.T) {
	t.Run("success: encode then decode keeps microsecond position", func(t *testing.T) {
		at := time.Date(2030, 3, 1, 12, 30, 0, 123456789, time.UTC)
		id := uuid.New()

		gotAt, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(at, id))
		require.NoError(t, err)
		assert.Equal(t, at.Truncate(time.Microsecond), gotAt)
		assert.Equal(t, id, gotID)
	})

	bad := map[string]string{
		"empty":           "",
		"not base64":      "%%%",
		"unknown version": base64.URLEncoding.EncodeToString([]byte("v9:1-" + uuid.NewString())),
		"missing id":      base64.URLEncoding.EncodeToString([]byte("v1:12345")),
		"bad timestamp":   base64.URLEncoding.EncodeToString([]byte("v1:abc-" + uuid.NewString())),
		"bad id":          base64.URLEncoding.EncodeToString([]byte("v1:1-zzz")),
	}
	for name, cursor := range bad {
		t.Run("error: "+name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(cursor)
			assert.ErrorIs(t, err, queries.ErrInvalidCursor)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, 5, queries.ValidateLimit(5))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(10_000))
}
