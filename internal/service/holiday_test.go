package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHolidayCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHolidayTable(t *testing.T) {
	path := writeHolidayCSV(t,
		"date,day_of_week,is_holiday_AB,is_holiday_BC,is_holiday_US,is_spring_break,is_stampede\n"+
			"2025-07-01,2,1,1,0,0,0\n"+
			"2025-07-04,5,0,0,1,0,0\n"+
			"not-a-date,1,0,0,0,0,0\n")

	table, err := LoadHolidayTable(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	record, ok := table.Lookup("2025-07-01")
	require.True(t, ok)
	assert.Equal(t, 2, record.DayOfWeekNum)
	assert.Equal(t, 7, record.Month)
	assert.Equal(t, 1, record.IsHolidayAB)
	assert.Equal(t, 1, record.IsHolidayBC)
	assert.Equal(t, 0, record.IsHolidayUS)

	record, ok = table.Lookup("2025-07-04")
	require.True(t, ok)
	assert.Equal(t, 1, record.IsHolidayUS)

	_, ok = table.Lookup("2025-12-25")
	assert.False(t, ok)
}

func TestLoadHolidayTable_DerivedDayOfWeek(t *testing.T) {
	// 2025-07-01 is a Tuesday, 2025-07-06 a Sunday
	path := writeHolidayCSV(t,
		"date,is_holiday_AB\n"+
			"2025-07-01,0\n"+
			"2025-07-06,0\n")

	table, err := LoadHolidayTable(path)
	require.NoError(t, err)

	record, ok := table.Lookup("2025-07-01")
	require.True(t, ok)
	assert.Equal(t, 2, record.DayOfWeekNum)

	record, ok = table.Lookup("2025-07-06")
	require.True(t, ok)
	assert.Equal(t, 7, record.DayOfWeekNum)
}

func TestLoadHolidayTable_FloatFlags(t *testing.T) {
	path := writeHolidayCSV(t,
		"date,is_holiday_AB,is_spring_break\n"+
			"2025-03-20,1.0,1.0\n")

	table, err := LoadHolidayTable(path)
	require.NoError(t, err)

	record, ok := table.Lookup("2025-03-20")
	require.True(t, ok)
	assert.Equal(t, 1, record.IsHolidayAB)
	assert.Equal(t, 1, record.IsSpringBreak)
}

func TestLoadHolidayTable_MissingDateColumn(t *testing.T) {
	path := writeHolidayCSV(t, "day,is_holiday_AB\nMonday,1\n")

	_, err := LoadHolidayTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
}

func TestLoadHolidayTable_MissingFile(t *testing.T) {
	_, err := LoadHolidayTable(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestEmptyHolidayTable(t *testing.T) {
	table := EmptyHolidayTable()
	assert.Zero(t, table.Len())
	_, ok := table.Lookup("2025-07-01")
	assert.False(t, ok)
}
