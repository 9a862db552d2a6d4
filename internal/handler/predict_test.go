package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mobility/internal/model"
	"mobility/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// zeroWeightModel produces bias + 0*x for any input, which makes the
// expected prediction trivial to assert.
func zeroWeightModel(t *testing.T, dir, name string, bias float64, features []string) string {
	t.Helper()
	weights := map[string]float64{}
	for _, f := range features {
		weights[f] = 0
	}
	data, err := json.Marshal(map[string]any{"bias": bias, "weights": weights})
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

var residentFeatureNames = []string{
	"day_of_week_num", "hour", "WestEntrance_Southbound_lag3",
	"is_holiday_BC", "is_holiday_AB", "is_holiday_US",
	"rolling_mean_3h", "is_bad_weather", "month",
	"total_downtown_outflow_lag3",
}

var visitorFeatureNames = []string{
	"hour", "MountainAve_Southbound_lag3", "rolling_std_24h",
	"WestEntrance_Northbound_lag3", "target_lag3",
	"day_of_week_num", "target_lag24",
}

func predictRouter(t *testing.T, residentPath, visitorPath string) *gin.Engine {
	t.Helper()
	predictor := service.NewPredictor(residentPath, visitorPath, zap.NewNop())
	h := NewPredictHandler(predictor)

	router := gin.New()
	router.POST("/api/v1/predict/resident", h.PredictResident)
	router.POST("/api/v1/predict/visitor", h.PredictVisitor)
	return router
}

func TestPredictResident(t *testing.T) {
	dir := t.TempDir()
	residentPath := zeroWeightModel(t, dir, "resident.json", 17.5, residentFeatureNames)
	visitorPath := zeroWeightModel(t, dir, "visitor.json", 3, visitorFeatureNames)
	router := predictRouter(t, residentPath, visitorPath)

	body, err := json.Marshal(model.ResidentRequest{Hour: 8, Month: 7})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/predict/resident", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.PredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 17.5, resp.Prediction, 1e-9)
}

func TestPredictVisitor(t *testing.T) {
	dir := t.TempDir()
	residentPath := zeroWeightModel(t, dir, "resident.json", 0, residentFeatureNames)
	visitorPath := zeroWeightModel(t, dir, "visitor.json", 42, visitorFeatureNames)
	router := predictRouter(t, residentPath, visitorPath)

	body, err := json.Marshal(model.VisitorRequest{Hour: 14})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/predict/visitor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.PredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 42, resp.Prediction, 1e-9)
}

func TestPredict_ModelNotLoaded(t *testing.T) {
	dir := t.TempDir()
	visitorPath := zeroWeightModel(t, dir, "visitor.json", 0, visitorFeatureNames)
	router := predictRouter(t, filepath.Join(dir, "missing.json"), visitorPath)

	body, err := json.Marshal(model.ResidentRequest{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/predict/resident", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "resident model is not loaded")
}

func TestPredict_MalformedBody(t *testing.T) {
	dir := t.TempDir()
	residentPath := zeroWeightModel(t, dir, "resident.json", 0, residentFeatureNames)
	visitorPath := zeroWeightModel(t, dir, "visitor.json", 0, visitorFeatureNames)
	router := predictRouter(t, residentPath, visitorPath)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/predict/visitor", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
