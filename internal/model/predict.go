package model

// ResidentRequest carries the feature vector for the resident traffic
// model. Field order in Vector must match the order the model was
// trained with.
type ResidentRequest struct {
	DayOfWeekNum             float64 `json:"day_of_week_num"`
	Hour                     float64 `json:"hour"`
	WestEntranceSouthLag3    float64 `json:"WestEntrance_Southbound_lag3"`
	IsHolidayBC              float64 `json:"is_holiday_BC"`
	IsHolidayAB              float64 `json:"is_holiday_AB"`
	IsHolidayUS              float64 `json:"is_holiday_US"`
	RollingMean3h            float64 `json:"rolling_mean_3h"`
	IsBadWeather             float64 `json:"is_bad_weather"`
	Month                    float64 `json:"month"`
	TotalDowntownOutflowLag3 float64 `json:"total_downtown_outflow_lag3"`
}

// Vector returns the features in model order.
func (r *ResidentRequest) Vector() []float64 {
	return []float64{
		r.DayOfWeekNum,
		r.Hour,
		r.WestEntranceSouthLag3,
		r.IsHolidayBC,
		r.IsHolidayAB,
		r.IsHolidayUS,
		r.RollingMean3h,
		r.IsBadWeather,
		r.Month,
		r.TotalDowntownOutflowLag3,
	}
}

// VisitorRequest carries the feature vector for the visitor traffic model.
type VisitorRequest struct {
	Hour                  float64 `json:"hour"`
	MountainAveSouthLag3  float64 `json:"MountainAve_Southbound_lag3"`
	RollingStd24h         float64 `json:"rolling_std_24h"`
	WestEntranceNorthLag3 float64 `json:"WestEntrance_Northbound_lag3"`
	TargetLag3            float64 `json:"target_lag3"`
	DayOfWeekNum          float64 `json:"day_of_week_num"`
	TargetLag24           float64 `json:"target_lag24"`
}

// Vector returns the features in model order.
func (r *VisitorRequest) Vector() []float64 {
	return []float64{
		r.Hour,
		r.MountainAveSouthLag3,
		r.RollingStd24h,
		r.WestEntranceNorthLag3,
		r.TargetLag3,
		r.DayOfWeekNum,
		r.TargetLag24,
	}
}

// PredictionResponse wraps a single scalar model output.
type PredictionResponse struct {
	Prediction float64 `json:"prediction"`
}
