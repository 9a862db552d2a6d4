package model

// HolidayRecord holds the calendar flags known for a single date.
// day_of_week_num is 1=Monday ... 7=Sunday.
type HolidayRecord struct {
	DayOfWeekNum  int `json:"day_of_week_num"`
	Month         int `json:"month"`
	IsHolidayAB   int `json:"is_holiday_AB"`
	IsHolidayBC   int `json:"is_holiday_BC"`
	IsHolidayUS   int `json:"is_holiday_US"`
	IsSpringBreak int `json:"is_spring_break"`
	IsStampede    int `json:"is_stampede"`
}
