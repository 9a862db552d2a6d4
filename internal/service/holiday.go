package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"mobility/internal/model"
)

// HolidayTable is the process-wide calendar lookup: ISO date string to
// holiday/seasonal flags. Built once at startup from a CSV feature
// file and never mutated afterward, so concurrent reads need no locking.
type HolidayTable struct {
	records map[string]model.HolidayRecord
}

// LoadHolidayTable reads the calendar feature CSV. The file must have
// a header with a "date" column; rows with unparseable dates are
// skipped. Missing flag columns default to zero, and day_of_week_num
// is derived from the date when the CSV does not carry it.
func LoadHolidayTable(path string) (*HolidayTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open holiday CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read holiday CSV header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["date"]; !ok {
		return nil, fmt.Errorf("holiday CSV must contain a 'date' column")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read holiday CSV rows: %w", err)
	}

	table := &HolidayTable{records: make(map[string]model.HolidayRecord, len(rows))}

	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row[col["date"]])
		if err != nil {
			continue
		}

		record := model.HolidayRecord{
			Month:         int(date.Month()),
			IsHolidayAB:   intField(row, col, "is_holiday_AB"),
			IsHolidayBC:   intField(row, col, "is_holiday_BC"),
			IsHolidayUS:   intField(row, col, "is_holiday_US"),
			IsSpringBreak: intField(row, col, "is_spring_break"),
			IsStampede:    intField(row, col, "is_stampede"),
		}

		if i, ok := col["day_of_week"]; ok {
			record.DayOfWeekNum = intValue(row, i)
		} else {
			// 1=Monday ... 7=Sunday
			record.DayOfWeekNum = (int(date.Weekday())+6)%7 + 1
		}

		table.records[date.Format("2006-01-02")] = record
	}

	return table, nil
}

// EmptyHolidayTable returns a table with no dates, used when the CSV
// cannot be loaded so the rest of the service can still start.
func EmptyHolidayTable() *HolidayTable {
	return &HolidayTable{records: map[string]model.HolidayRecord{}}
}

// Lookup returns the record for an ISO date string.
func (t *HolidayTable) Lookup(date string) (model.HolidayRecord, bool) {
	record, ok := t.records[date]
	return record, ok
}

// Len returns the number of dates in the table.
func (t *HolidayTable) Len() int {
	return len(t.records)
}

func intField(row []string, col map[string]int, name string) int {
	i, ok := col[name]
	if !ok {
		return 0
	}
	return intValue(row, i)
}

func intValue(row []string, i int) int {
	if i < 0 || i >= len(row) {
		return 0
	}
	v, err := strconv.ParseFloat(row[i], 64)
	if err != nil {
		return 0
	}
	return int(v)
}
