package dto

import (
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

// ProjectAnalyticsResponse is the project dashboard payload: computed
// metrics plus the AI intelligence and insight blocks.
type ProjectAnalyticsResponse struct {
	Project      TaskDTO                             `json:"project"`
	Metrics      services.ProjectMetrics             `json:"metrics"`
	Intelligence *services.ProjectIntelligenceResult `json:"intelligence"`
	Insights     *services.ProjectInsightsResult     `json:"insights"`
}

// ToProjectAnalyticsResponse assembles the dashboard payload.
func ToProjectAnalyticsResponse(analytics *services.ProjectAnalytics) ProjectAnalyticsResponse {
	return ProjectAnalyticsResponse{
		Project:      ToTaskDTO(*analytics.Project),
		Metrics:      analytics.Metrics,
		Intelligence: analytics.Intelligence,
		Insights:     analytics.Insights,
	}
}
