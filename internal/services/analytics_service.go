package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/calendar"
	"github.com/taskmasterpro/taskmaster-api/internal/models"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
)

// ProjectMetrics are the computed figures for a project's subtask set.
type ProjectMetrics struct {
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	CompletionRate float64 `json:"completionRate"`
	TotalEstimated int     `json:"totalEstimatedTime"`
	TotalActual    int     `json:"totalActualTime"`
	TimeEfficiency float64 `json:"timeEfficiency"`
	DaysRemaining  *int    `json:"daysRemaining"`
	RiskLevel      string  `json:"riskLevel"`
}

// ProjectAnalytics bundles the metrics with the AI analysis for the
// project dashboard.
type ProjectAnalytics struct {
	Project      *models.Task
	Metrics      ProjectMetrics
	Intelligence *ProjectIntelligenceResult
	Insights     *ProjectInsightsResult
}

// AnalyticsService computes project metrics and drives the AI
// project analysis.
type AnalyticsService struct {
	tasks        repository.TaskRepository
	categories   repository.CategoryRepository
	integrations repository.CalendarIntegrationRepository
	ai           *AIService
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	tasks repository.TaskRepository,
	categories repository.CategoryRepository,
	integrations repository.CalendarIntegrationRepository,
	ai *AIService,
) *AnalyticsService {
	return &AnalyticsService{
		tasks:        tasks,
		categories:   categories,
		integrations: integrations,
		ai:           ai,
	}
}

// Analyze loads a project, computes its metrics, and runs the AI
// intelligence and insights passes. AI failures here propagate to the
// caller instead of degrading silently.
func (s *AnalyticsService) Analyze(ctx context.Context, projectID, userID string) (*ProjectAnalytics, error) {
	project, err := s.tasks.FindOwned(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	metrics := computeMetrics(project, time.Now())

	windows, err := s.projectWindows(project)
	if err != nil {
		return nil, err
	}

	events, err := s.upcomingEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := projectTaskSummaries(project.Subtasks)

	dueDate := ""
	if project.DueDate != nil {
		dueDate = project.DueDate.Format(time.RFC3339)
	}

	intelligence, err := s.ai.AnalyzeProjectIntelligence(ctx, ProjectIntelligenceInput{
		Title:             project.Title,
		Tasks:             summaries,
		DueDate:           dueDate,
		CategorySchedules: windows,
		CalendarEvents:    events,
	})
	if err != nil {
		return nil, fmt.Errorf("project intelligence: %w", err)
	}

	insights, err := s.ai.GenerateProjectInsights(ctx, project.ID, summaries)
	if err != nil {
		return nil, fmt.Errorf("project insights: %w", err)
	}

	return &ProjectAnalytics{
		Project:      project,
		Metrics:      metrics,
		Intelligence: intelligence,
		Insights:     insights,
	}, nil
}

// projectTaskSummaries flattens subtasks into the shape the AI analysis
// consumes. Missing estimates are reported as zero.
func projectTaskSummaries(subtasks []models.Task) []ProjectTaskSummary {
	summaries := make([]ProjectTaskSummary, 0, len(subtasks))
	for _, sub := range subtasks {
		deps := make([]string, 0, len(sub.Dependencies))
		for _, d := range sub.Dependencies {
			if d.Dependency != nil {
				deps = append(deps, d.Dependency.Title)
			}
		}

		estimated := 0
		if sub.EstimatedTime != nil {
			estimated = *sub.EstimatedTime
		}

		summaries = append(summaries, ProjectTaskSummary{
			Title:         sub.Title,
			EstimatedTime: estimated,
			Priority:      string(sub.Priority),
			Dependencies:  deps,
		})
	}
	return summaries
}

// computeMetrics derives completion, time efficiency, and risk figures
// from the project's subtasks.
func computeMetrics(project *models.Task, now time.Time) ProjectMetrics {
	metrics := ProjectMetrics{
		TotalTasks: len(project.Subtasks),
		RiskLevel:  "Low",
	}

	urgentOpen := 0
	for _, sub := range project.Subtasks {
		if sub.Status == models.TaskStatusCompleted {
			metrics.CompletedTasks++
		} else if sub.Priority == models.TaskPriorityUrgent {
			urgentOpen++
		}
		if sub.EstimatedTime != nil {
			metrics.TotalEstimated += *sub.EstimatedTime
		}
		if sub.ActualTime != nil {
			metrics.TotalActual += *sub.ActualTime
		}
	}

	if metrics.TotalTasks > 0 {
		metrics.CompletionRate = float64(metrics.CompletedTasks) / float64(metrics.TotalTasks) * 100
	}

	actual := metrics.TotalActual
	if actual < 1 {
		actual = 1
	}
	metrics.TimeEfficiency = float64(metrics.TotalEstimated) / float64(actual) * 100

	if project.DueDate != nil {
		days := int(math.Ceil(project.DueDate.Sub(now).Hours() / 24))
		metrics.DaysRemaining = &days
	}

	switch {
	case urgentOpen > 2:
		metrics.RiskLevel = "High"
	case urgentOpen > 0:
		metrics.RiskLevel = "Medium"
	}

	return metrics
}

// projectWindows collects the active availability windows of the
// project's category, when it has one.
func (s *AnalyticsService) projectWindows(project *models.Task) ([]calendar.Window, error) {
	if project.CategoryID == nil {
		return nil, nil
	}
	schedules, err := s.categories.ActiveSchedules(*project.CategoryID)
	if err != nil {
		return nil, err
	}
	windows := make([]calendar.Window, 0, len(schedules))
	for _, sched := range schedules {
		windows = append(windows, calendar.Window{
			DayOfWeek: sched.DayOfWeek,
			StartHour: sched.StartHour,
			EndHour:   sched.EndHour,
		})
	}
	return windows, nil
}

// upcomingEvents fetches the next week of calendar events across the
// user's connected providers.
func (s *AnalyticsService) upcomingEvents(ctx context.Context, userID string) ([]calendar.Event, error) {
	manager, err := calendar.ManagerForUser(userID, s.integrations)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return manager.Events(ctx, now, now.AddDate(0, 0, 7)), nil
}
