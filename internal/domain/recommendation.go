package domain

import "time"

// Recommendation is one agent-produced rebalancing recommendation for a
// strategy. The recommendation text and analysis come from the agent
// backend verbatim; this service only stores and serves them.
type Recommendation struct {
	ID             string    `json:"id"`
	StrategyID     string    `json:"strategy_id"`
	Recommendation string    `json:"recommendation"`
	Analysis       string    `json:"analysis,omitempty"` // JSON text
	CreatedAt      time.Time `json:"created_at"`
}

// CreateRecommendationRequest asks for a new recommendation for a strategy.
type CreateRecommendationRequest struct {
	StrategyID string `json:"strategy_id" binding:"required"`
}

// RecommendationModel is the GORM persistence model for recommendations.
type RecommendationModel struct {
	ID             string `gorm:"primaryKey;type:varchar(36)"`
	StrategyID     string `gorm:"type:varchar(36);not null;index"`
	Recommendation string `gorm:"type:text;not null"`
	Analysis       string `gorm:"type:text"`
	CreatedAt      time.Time
}

// TableName overrides the GORM table name.
func (RecommendationModel) TableName() string {
	return "recommendations"
}

// ToDomain converts the persistence model to the domain object.
func (m *RecommendationModel) ToDomain() *Recommendation {
	return &Recommendation{
		ID:             m.ID,
		StrategyID:     m.StrategyID,
		Recommendation: m.Recommendation,
		Analysis:       m.Analysis,
		CreatedAt:      m.CreatedAt,
	}
}

// RecommendationToModel converts a domain recommendation to its model.
func RecommendationToModel(r *Recommendation) *RecommendationModel {
	return &RecommendationModel{
		ID:             r.ID,
		StrategyID:     r.StrategyID,
		Recommendation: r.Recommendation,
		Analysis:       r.Analysis,
		CreatedAt:      r.CreatedAt,
	}
}
