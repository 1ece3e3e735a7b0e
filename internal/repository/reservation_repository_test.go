package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func TestListQuery_MineWithStatus(t *testing.T) {
	countSQL, pageSQL, args, err := listQuery(ListParams{
		UserID: 7,
		Page:   2,
		Size:   10,
		Sort:   model.Sort{Key: model.SortReservationTime, Dir: model.Asc},
		Status: model.StatusConfirmed,
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM reservations WHERE user_id = ? AND status = ?", countSQL)
	assert.Equal(t,
		"SELECT "+reservationColumns+" FROM reservations WHERE user_id = ? AND status = ? ORDER BY reservation_time ASC, id ASC LIMIT ? OFFSET ?",
		pageSQL)
	assert.Equal(t, []any{uint64(7), "CONFIRMED"}, args)
}

func TestListQuery_AllUsersAllStatuses(t *testing.T) {
	countSQL, pageSQL, args, err := listQuery(ListParams{AllUsers: true, Size: 5, Sort: model.DefaultSort})
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM reservations", countSQL)
	assert.Contains(t, pageSQL, "ORDER BY created_at DESC, id DESC")
	assert.NotContains(t, pageSQL, "WHERE")
	assert.Empty(t, args)
}

func TestListQuery_RejectsUnknownSortKey(t *testing.T) {
	_, _, _, err := listQuery(ListParams{Size: 5, Sort: model.Sort{Key: "price; DROP TABLE users", Dir: model.Asc}})
	assert.Error(t, err)
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{3, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, totalPages(c.total, c.size), "%d/%d", c.total, c.size)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}
