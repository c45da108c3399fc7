package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"

	"hadirku_backend/internals/features/attendance/presence/service"
)

func TestOutsideCounter(t *testing.T) {
	t.Run("di dalam geofence = reset ke 0", func(t *testing.T) {
		insertVal, conflictVal := service.OutsideCounter(true, true)
		require.Equal(t, 0, insertVal)
		require.Equal(t, 0, conflictVal)
	})

	t.Run("di luar geofence = increment atomik di SQL", func(t *testing.T) {
		insertVal, conflictVal := service.OutsideCounter(true, false)
		require.Equal(t, 1, insertVal) // row baru: bacaan pertama

		expr, ok := conflictVal.(clause.Expr)
		require.True(t, ok, "update harus ekspresi SQL, bukan nilai hasil read")
		require.Contains(t, expr.SQL, "presence_heartbeat_outside_count + 1")
	})

	t.Run("gps mati = counter tidak berubah", func(t *testing.T) {
		insertVal, conflictVal := service.OutsideCounter(false, false)
		require.Equal(t, 0, insertVal)

		expr, ok := conflictVal.(clause.Expr)
		require.True(t, ok)
		require.Contains(t, expr.SQL, "presence_heartbeat_outside_count")
		require.NotContains(t, expr.SQL, "+ 1")
	})
}
