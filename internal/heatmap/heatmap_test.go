package heatmap

import (
	"testing"
	"time"

	"careerdeck/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, time.March, 15, 18, 30, 0, 0, time.UTC)

func TestBuildEndsToday(t *testing.T) {
	cells := Build(nil, today)
	require.Len(t, cells, Days)
	assert.Equal(t, "2025-03-15", cells[Days-1].Key())
	assert.Equal(t, "2024-03-16", cells[0].Key())
	for _, c := range cells {
		assert.Zero(t, c.Level)
	}
}

func TestBuildMapsData(t *testing.T) {
	cells := Build([]types.ActivityDay{
		{Date: "2025-03-15", Level: 3, Hours: 2.5},
		{Date: "2025-03-14", Level: 9, Hours: 8},
		{Date: "2025-03-13", Level: -1},
		{Date: "2023-01-01", Level: 4, Hours: 1}, // outside the window
	}, today)

	assert.Equal(t, 3, cells[Days-1].Level)
	assert.Equal(t, 2.5, cells[Days-1].Hours)
	assert.Equal(t, MaxLevel, cells[Days-2].Level)
	assert.Equal(t, 0, cells[Days-3].Level)

	hours, active := Totals(cells)
	assert.Equal(t, 10.5, hours)
	assert.Equal(t, 2, active)
}

func TestWeeks(t *testing.T) {
	cells := Build(nil, today)
	weeks := Weeks(cells)

	// 2024-03-16 is a Saturday: six empty slots then one day.
	first := weeks[0]
	for i := 0; i < 6; i++ {
		assert.Nil(t, first[i])
	}
	require.NotNil(t, first[6])
	assert.Equal(t, "2024-03-16", first[6].Key())

	n := 0
	for _, w := range weeks {
		for _, c := range w {
			if c != nil {
				n++
			}
		}
	}
	assert.Equal(t, Days, n)

	last := weeks[len(weeks)-1]
	// 2025-03-15 is a Saturday, closing the final column.
	require.NotNil(t, last[6])
	assert.Equal(t, "2025-03-15", last[6].Key())

	assert.Nil(t, Weeks(nil))
}
