package handler

import (
	"errors"
	"net/http"

	"mobility/internal/model"
	"mobility/internal/service"

	"github.com/gin-gonic/gin"
)

// PredictHandler handles traffic prediction HTTP requests
type PredictHandler struct {
	predictor *service.Predictor
}

// NewPredictHandler creates a new prediction handler
func NewPredictHandler(predictor *service.Predictor) *PredictHandler {
	return &PredictHandler{predictor: predictor}
}

// PredictResident handles POST /api/v1/predict/resident
func (h *PredictHandler) PredictResident(c *gin.Context) {
	var req model.ResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	h.score(c, service.ModelResident, req.Vector())
}

// PredictVisitor handles POST /api/v1/predict/visitor
func (h *PredictHandler) PredictVisitor(c *gin.Context) {
	var req model.VisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	h.score(c, service.ModelVisitor, req.Vector())
}

func (h *PredictHandler) score(c *gin.Context, variant service.ModelVariant, features []float64) {
	prediction, err := h.predictor.Score(variant, features)
	if err != nil {
		if errors.Is(err, service.ErrModelNotLoaded) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": string(variant) + " model is not loaded"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.PredictionResponse{Prediction: prediction})
}
