package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// An AIService without a client behaves like one whose upstream calls
// fail, so these exercise the degradation contract: planning helpers
// return empty defaults, analysis operations return errors.

func TestExpandTask_EmptyDefaultOnFailure(t *testing.T) {
	svc := &AIService{}

	result := svc.ExpandTask(context.Background(), "Plan launch", "", nil)

	assert.NotNil(t, result.Subtasks)
	assert.NotNil(t, result.Dependencies)
	assert.NotNil(t, result.Suggestions)
	assert.Empty(t, result.Subtasks)
}

func TestGenerateDailyAssessment_EmptyDefaultOnFailure(t *testing.T) {
	svc := &AIService{}

	result := svc.GenerateDailyAssessment(context.Background(),
		[]string{"Done yesterday"}, []string{"Pending"}, nil)

	assert.NotNil(t, result.TodayPlan)
	assert.NotNil(t, result.QuickWins)
	assert.NotNil(t, result.Risks)
	assert.Empty(t, result.TodayPlan)
}

func TestAnalyzeDependencies_EmptyDefaultOnFailure(t *testing.T) {
	svc := &AIService{}

	risks := svc.AnalyzeDependencies(context.Background(), "task-1", "Ship release", []string{"QA signoff"})

	assert.NotNil(t, risks)
	assert.Empty(t, risks)
}

func TestGetTaskAssistance_EmptyDefaultOnFailure(t *testing.T) {
	svc := &AIService{}

	result := svc.GetTaskAssistance(context.Background(), "Write docs", "", "Where do I start?", "")

	assert.Empty(t, result.Advice)
	assert.NotNil(t, result.Suggestions)
	assert.NotNil(t, result.NextSteps)
}

func TestReviewTaskCreation_EmptyDefaultOnFailure(t *testing.T) {
	svc := &AIService{}

	result := svc.ReviewTaskCreation(context.Background(), TaskDraft{Title: "New task"}, nil)

	assert.NotNil(t, result.Suggestions)
	assert.NotNil(t, result.Questions)
	assert.NotNil(t, result.SubtaskRecommendations)
}

func TestGenerateContextQuestions_EmptyDefaultOnFailure(t *testing.T) {
	svc := &AIService{}

	questions := svc.GenerateContextQuestions(context.Background(), TaskDraft{Title: "New task"})

	assert.NotNil(t, questions)
	assert.Empty(t, questions)
}

func TestAnalyzeProjectIntelligence_PropagatesFailure(t *testing.T) {
	svc := &AIService{}

	_, err := svc.AnalyzeProjectIntelligence(context.Background(), ProjectIntelligenceInput{Title: "Launch"})

	assert.Error(t, err)
}

func TestGenerateProjectInsights_PropagatesFailure(t *testing.T) {
	svc := &AIService{}

	_, err := svc.GenerateProjectInsights(context.Background(), "project-1", nil)

	assert.Error(t, err)
}
