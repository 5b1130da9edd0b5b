package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stratiq/ai-service/internal/application/analysis"
	"go.uber.org/zap"
)

const (
	serviceTitle = "StratIQ AI Service"
	serviceName  = "StratIQ AI"
	apiVersion   = "1.0.0"
)

// Feature endpoint paths
const (
	PathStrategyAnalyze = "/strategy/analyze"
	PathRecallInsights  = "/recall/insights"
	PathRiskCalculate   = "/risk/calculate"
	PathMarketSentiment = "/market/sentiment"
)

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeCORSRejected     = "CORS_REJECTED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeInternal         = "INTERNAL_ERROR"
)

// Endpoints returns the feature endpoint paths advertised by the health check
func Endpoints() []string {
	return []string{
		PathStrategyAnalyze,
		PathRecallInsights,
		PathRiskCalculate,
		PathMarketSentiment,
	}
}

// StatusResponse represents the root status payload
type StatusResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleRoot reports that the service is up
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Message: serviceTitle + " is running!",
		Version: apiVersion,
		Status:  "healthy",
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Service:   serviceName,
		Endpoints: Endpoints(),
	})
}

// handleAnalyzeStrategy handles strategy analysis
func (s *Server) handleAnalyzeStrategy(c *gin.Context) {
	strategy, ok := s.bindPayload(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.analysis.AnalyzeStrategy(c.Request.Context(), strategy))
}

// handleRecallInsights handles Recall leaderboard insights
func (s *Server) handleRecallInsights(c *gin.Context) {
	c.JSON(http.StatusOK, s.analysis.RecallInsights(c.Request.Context()))
}

// handleCalculateRisk handles portfolio risk calculation
func (s *Server) handleCalculateRisk(c *gin.Context) {
	portfolio, ok := s.bindPayload(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.analysis.CalculateRisk(c.Request.Context(), portfolio))
}

// handleMarketSentiment handles market sentiment
func (s *Server) handleMarketSentiment(c *gin.Context) {
	c.JSON(http.StatusOK, s.analysis.MarketSentiment(c.Request.Context()))
}

// bindPayload decodes a body holding exactly one JSON object. On failure it
// writes the error response and returns false.
func (s *Server) bindPayload(c *gin.Context) (analysis.Payload, bool) {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "request body too large", nil)
			return nil, false
		}
		s.rejectPayload(c, err)
		return nil, false
	}

	// Payload keeps values as raw bytes, so invalid UTF-8 would be echoed verbatim.
	if !utf8.Valid(body) {
		s.rejectPayload(c, errInvalidUTF8)
		return nil, false
	}

	// Unmarshal rejects anything after the top-level value.
	var payload analysis.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.rejectPayload(c, err)
		return nil, false
	}

	// A literal null decodes without error into a nil map.
	if payload == nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, "request body must be a JSON object", nil)
		return nil, false
	}

	return payload, true
}

var errInvalidUTF8 = errors.New("request body is not valid UTF-8")

func (s *Server) rejectPayload(c *gin.Context, err error) {
	s.logger.Warn("invalid request",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(err))
	abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, "request body must be a JSON object", err.Error())
}

func handleNotFound(c *gin.Context) {
	abortWithError(c, http.StatusNotFound, CodeNotFound, "route not found", nil)
}

func handleMethodNotAllowed(c *gin.Context) {
	abortWithError(c, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil)
}

func abortWithError(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
