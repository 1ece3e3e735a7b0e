package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	for _, opt := range SortOptions {
		got, err := ParseSort(opt.String())
		require.NoError(t, err)
		assert.Equal(t, opt, got)
	}

	got, err := ParseSort(" reservationTime , DESC ")
	require.NoError(t, err)
	assert.Equal(t, Sort{Key: SortReservationTime, Dir: Desc}, got)
	assert.True(t, got.Descending())

	for _, bad := range []string{"", "createdAt", "id,desc", "createdAt,up", "createdAt;desc"} {
		_, err := ParseSort(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaultSort(t *testing.T) {
	assert.Equal(t, "createdAt,desc", DefaultSort.String())
}

func TestParseStatusFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"", StatusAll, false},
		{"all", StatusAll, false},
		{"ALL", StatusAll, false},
		{"CONFIRMED", StatusConfirmed, false},
		{"pending", StatusPending, false},
		{"completed", StatusCompleted, false},
		{"NO_SHOW", StatusAll, true},
	}
	for _, tt := range tests {
		got, err := ParseStatusFilter(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
