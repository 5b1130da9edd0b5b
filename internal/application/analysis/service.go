package analysis

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Feature names used for metrics and logs
const (
	FeatureStrategyAnalysis = "strategy_analysis"
	FeatureRecallInsights   = "recall_insights"
	FeatureRiskCalculation  = "risk_calculation"
	FeatureMarketSentiment  = "market_sentiment"
)

// SentimentNeutral is the only sentiment label reported today.
const SentimentNeutral = "neutral"

// Payload is an arbitrary JSON object submitted by a caller.
// Values are kept as raw JSON so an echo reproduces them exactly.
type Payload map[string]json.RawMessage

// StrategyAnalysis is the response to a strategy analysis request
type StrategyAnalysis struct {
	Message      string  `json:"message"`
	ReceivedData Payload `json:"received_data"`
}

// RecallInsights is the response to a Recall leaderboard insights request
type RecallInsights struct {
	Message       string        `json:"message"`
	TopPerformers []interface{} `json:"top_performers"`
	Patterns      []interface{} `json:"patterns"`
}

// RiskAssessment is the response to a portfolio risk calculation
type RiskAssessment struct {
	Message         string        `json:"message"`
	RiskScore       float64       `json:"risk_score"`
	Recommendations []interface{} `json:"recommendations"`
}

// MarketSentiment is the response to a market sentiment request
type MarketSentiment struct {
	Message    string  `json:"message"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// MetricsRecorder records feature usage
type MetricsRecorder interface {
	RecordFeatureRequest(feature string)
}

// Service answers feature requests
type Service struct {
	metrics MetricsRecorder
	logger  *zap.Logger
}

// NewService creates a new analysis service. metrics may be nil.
func NewService(metrics MetricsRecorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		metrics: metrics,
		logger:  logger,
	}
}

// AnalyzeStrategy acknowledges a strategy and echoes it back unchanged
func (s *Service) AnalyzeStrategy(ctx context.Context, strategy Payload) StrategyAnalysis {
	s.record(FeatureStrategyAnalysis, zap.Int("fields", len(strategy)))

	return StrategyAnalysis{
		Message:      "Strategy analysis coming soon",
		ReceivedData: strategy,
	}
}

// RecallInsights returns Recall leaderboard insights
func (s *Service) RecallInsights(ctx context.Context) RecallInsights {
	s.record(FeatureRecallInsights)

	return RecallInsights{
		Message:       "Recall insights coming soon",
		TopPerformers: []interface{}{},
		Patterns:      []interface{}{},
	}
}

// CalculateRisk returns the risk assessment for a portfolio.
// The portfolio is accepted but not inspected.
func (s *Service) CalculateRisk(ctx context.Context, portfolio Payload) RiskAssessment {
	s.record(FeatureRiskCalculation, zap.Int("fields", len(portfolio)))

	return RiskAssessment{
		Message:         "Risk calculation coming soon",
		RiskScore:       0.0,
		Recommendations: []interface{}{},
	}
}

// MarketSentiment returns the current market sentiment
func (s *Service) MarketSentiment(ctx context.Context) MarketSentiment {
	s.record(FeatureMarketSentiment)

	return MarketSentiment{
		Message:    "Market sentiment analysis coming soon",
		Sentiment:  SentimentNeutral,
		Confidence: 0.0,
	}
}

func (s *Service) record(feature string, fields ...zap.Field) {
	if s.metrics != nil {
		s.metrics.RecordFeatureRequest(feature)
	}
	s.logger.Debug("feature request", append([]zap.Field{zap.String("feature", feature)}, fields...)...)
}
