package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// ModelVariant selects which traffic model scores a feature vector.
type ModelVariant string

const (
	ModelResident ModelVariant = "resident"
	ModelVisitor  ModelVariant = "visitor"
)

var (
	// ErrModelNotLoaded is returned when scoring is requested for a
	// variant whose coefficient file failed to load at startup.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrBadFeatureVector is returned when the vector length does not
	// match the model's fixed feature order.
	ErrBadFeatureVector = errors.New("malformed feature vector")
)

// residentFeatures and visitorFeatures fix the feature order each
// model was trained with; scoring input must match exactly.
var residentFeatures = []string{
	"day_of_week_num",
	"hour",
	"WestEntrance_Southbound_lag3",
	"is_holiday_BC",
	"is_holiday_AB",
	"is_holiday_US",
	"rolling_mean_3h",
	"is_bad_weather",
	"month",
	"total_downtown_outflow_lag3",
}

var visitorFeatures = []string{
	"hour",
	"MountainAve_Southbound_lag3",
	"rolling_std_24h",
	"WestEntrance_Northbound_lag3",
	"target_lag3",
	"day_of_week_num",
	"target_lag24",
}

// modelFile is the on-disk coefficient format.
type modelFile struct {
	Bias    float64            `json:"bias"`
	Weights map[string]float64 `json:"weights"`
}

// scoringModel holds a loaded model with weights aligned to the
// variant's feature order.
type scoringModel struct {
	features []string
	bias     float64
	weights  []float64
}

func (m *scoringModel) score(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrBadFeatureVector, len(features), len(m.weights))
	}
	y := m.bias
	for i, x := range features {
		y += m.weights[i] * x
	}
	return y, nil
}

// Predictor serves scalar traffic predictions for the resident and
// visitor model variants.
type Predictor struct {
	models map[ModelVariant]*scoringModel
	logger *zap.Logger
}

// NewPredictor loads both coefficient files. A variant whose file is
// missing or malformed is logged and left unloaded; scoring requests
// for it fail at call time while the rest of the service keeps
// running.
func NewPredictor(residentPath, visitorPath string, logger *zap.Logger) *Predictor {
	p := &Predictor{
		models: map[ModelVariant]*scoringModel{},
		logger: logger,
	}

	for _, spec := range []struct {
		variant  ModelVariant
		path     string
		features []string
	}{
		{ModelResident, residentPath, residentFeatures},
		{ModelVisitor, visitorPath, visitorFeatures},
	} {
		m, err := loadModel(spec.path, spec.features)
		if err != nil {
			logger.Error("failed to load traffic model",
				zap.String("variant", string(spec.variant)),
				zap.String("path", spec.path),
				zap.Error(err))
			continue
		}
		p.models[spec.variant] = m
		logger.Info("traffic model loaded",
			zap.String("variant", string(spec.variant)),
			zap.Int("features", len(spec.features)))
	}

	return p
}

func loadModel(path string, features []string) (*scoringModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse model file: %w", err)
	}

	weights := make([]float64, len(features))
	for i, name := range features {
		w, ok := file.Weights[name]
		if !ok {
			return nil, fmt.Errorf("model file missing weight for feature %q", name)
		}
		weights[i] = w
	}

	return &scoringModel{
		features: features,
		bias:     file.Bias,
		weights:  weights,
	}, nil
}

// Score predicts traffic volume for one variant given a feature vector
// in that variant's fixed order.
func (p *Predictor) Score(variant ModelVariant, features []float64) (float64, error) {
	m, ok := p.models[variant]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrModelNotLoaded, variant)
	}
	return m.score(features)
}

// Loaded reports whether the variant's model is available.
func (p *Predictor) Loaded(variant ModelVariant) bool {
	_, ok := p.models[variant]
	return ok
}
