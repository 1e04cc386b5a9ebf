// Package heatmap buckets activity days into a fixed grid ending today.
package heatmap

import (
	"time"

	"careerdeck/internal/types"
)

// Days is the length of the grid.
const Days = 365

// MaxLevel is the highest intensity level.
const MaxLevel = 4

// Cell is one day of the grid.
type Cell struct {
	Date  time.Time
	Level int // 0..MaxLevel
	Hours float64
}

// Key returns the YYYY-MM-DD form used by the server.
func (c Cell) Key() string { return c.Date.Format(time.DateOnly) }

// Build returns Days cells ending on today's date, oldest first. Days without
// data have level 0; out-of-range levels are clamped.
func Build(activity []types.ActivityDay, today time.Time) []Cell {
	byDate := make(map[string]types.ActivityDay, len(activity))
	for _, a := range activity {
		byDate[a.Date] = a
	}

	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	cells := make([]Cell, Days)
	for i := range cells {
		date := end.AddDate(0, 0, -(Days - 1 - i))
		c := Cell{Date: date}
		if a, ok := byDate[date.Format(time.DateOnly)]; ok {
			c.Level = clampLevel(a.Level)
			c.Hours = a.Hours
		}
		cells[i] = c
	}
	return cells
}

func clampLevel(l int) int {
	if l < 0 {
		return 0
	}
	if l > MaxLevel {
		return MaxLevel
	}
	return l
}

// Weeks arranges cells into columns of seven rows, Sunday first. The first
// column is padded with nil cells before the grid's first weekday.
func Weeks(cells []Cell) [][7]*Cell {
	if len(cells) == 0 {
		return nil
	}
	var weeks [][7]*Cell
	var col [7]*Cell
	row := int(cells[0].Date.Weekday())
	for i := range cells {
		col[row] = &cells[i]
		row++
		if row == 7 {
			weeks = append(weeks, col)
			col = [7]*Cell{}
			row = 0
		}
	}
	if row != 0 {
		weeks = append(weeks, col)
	}
	return weeks
}

// Totals sums hours and counts active days.
func Totals(cells []Cell) (hours float64, activeDays int) {
	for _, c := range cells {
		hours += c.Hours
		if c.Level > 0 || c.Hours > 0 {
			activeDays++
		}
	}
	return hours, activeDays
}
