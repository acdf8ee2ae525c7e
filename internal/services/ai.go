package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/taskmasterpro/taskmaster-api/internal/calendar"
)

// AIService is the gateway to the external completion API. Each
// operation serializes task context into a prompt, expects a
// JSON-shaped reply, and parses it into a typed result.
//
// Failure contracts differ per operation and are part of the API:
// the planning helpers (ExpandTask, GenerateDailyAssessment,
// AnalyzeDependencies, GetTaskAssistance, ReviewTaskCreation,
// GenerateContextQuestions) swallow failures into empty-valued
// defaults, while the two project-analysis operations propagate them.
type AIService struct {
	client *openai.Client
}

// NewAIService creates the gateway; a nil return from callers that
// check for an empty key means the AI surface is disabled.
func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// chat sends a single user message and returns the raw reply text.
func (s *AIService) chat(ctx context.Context, prompt string, temperature float32) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("AI client not initialized")
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("completion API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from completion API")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SuggestedSubtask is one AI-proposed subtask.
type SuggestedSubtask struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	EstimatedTime int    `json:"estimatedTime,omitempty"`
}

// TaskExpansionResult is the reply shape of ExpandTask.
type TaskExpansionResult struct {
	Subtasks     []SuggestedSubtask `json:"subtasks"`
	Dependencies []string           `json:"dependencies"`
	Suggestions  []string           `json:"suggestions"`
}

func emptyExpansion() TaskExpansionResult {
	return TaskExpansionResult{
		Subtasks:     []SuggestedSubtask{},
		Dependencies: []string{},
		Suggestions:  []string{},
	}
}

// ExpandTask breaks a task into actionable subtasks. On any failure it
// returns the empty shape rather than an error.
func (s *AIService) ExpandTask(ctx context.Context, taskTitle, taskDescription string, existingSubtasks []string) TaskExpansionResult {
	var sb strings.Builder
	sb.WriteString("You are an AI assistant helping to break down a task into actionable subtasks.\n\n")
	sb.WriteString("Task: " + taskTitle + "\n")
	if taskDescription != "" {
		sb.WriteString("Description: " + taskDescription + "\n")
	}
	if len(existingSubtasks) > 0 {
		sb.WriteString("Existing subtasks: " + strings.Join(existingSubtasks, ", ") + "\n")
	}
	sb.WriteString(`
Please provide:
1. A list of 3-8 specific, actionable subtasks
2. Any dependencies this task might have on other tasks
3. Suggestions for improving efficiency

Format your response as JSON:
{
  "subtasks": [
    {
      "title": "Specific action item",
      "description": "Brief description if needed",
      "estimatedTime": 30
    }
  ],
  "dependencies": ["dependency1", "dependency2"],
  "suggestions": ["suggestion1", "suggestion2"]
}

Keep subtasks specific and actionable. Estimated time should be in minutes.`)

	reply, err := s.chat(ctx, sb.String(), 0.7)
	if err != nil {
		log.Printf("ai: expand task failed: %v", err)
		return emptyExpansion()
	}

	var result TaskExpansionResult
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		log.Printf("ai: expand task parse failed: %v", err)
		return emptyExpansion()
	}
	normalizeExpansion(&result)
	return result
}

func normalizeExpansion(r *TaskExpansionResult) {
	if r.Subtasks == nil {
		r.Subtasks = []SuggestedSubtask{}
	}
	if r.Dependencies == nil {
		r.Dependencies = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
}

// DailyAssessmentResult is the reply shape of GenerateDailyAssessment.
type DailyAssessmentResult struct {
	TodayPlan   []string `json:"todayPlan"`
	QuickWins   []string `json:"quickWins"`
	Risks       []string `json:"risks"`
	Suggestions []string `json:"suggestions"`
}

func emptyAssessment() DailyAssessmentResult {
	return DailyAssessmentResult{
		TodayPlan:   []string{},
		QuickWins:   []string{},
		Risks:       []string{},
		Suggestions: []string{},
	}
}

// GenerateDailyAssessment produces planning guidance from yesterday's
// completions and the current backlog. Failures yield the empty shape.
func (s *AIService) GenerateDailyAssessment(ctx context.Context, completedTasks, pendingTasks, overdueTasks []string) DailyAssessmentResult {
	prompt := fmt.Sprintf(`You are an AI assistant providing a daily task assessment and planning guidance.

Yesterday's completed tasks: %s
Current pending tasks: %s
Overdue tasks: %s

Please provide:
1. A prioritized plan for today (3-5 most important tasks)
2. Quick wins that can be completed in under 30 minutes
3. Potential risks or blockers
4. General suggestions for productivity

Format your response as JSON:
{
  "todayPlan": ["task1", "task2", "task3"],
  "quickWins": ["quick task1", "quick task2"],
  "risks": ["risk1", "risk2"],
  "suggestions": ["suggestion1", "suggestion2"]
}

Focus on actionable, specific advice.`,
		strings.Join(completedTasks, ", "),
		strings.Join(pendingTasks, ", "),
		strings.Join(overdueTasks, ", "))

	reply, err := s.chat(ctx, prompt, 0.7)
	if err != nil {
		log.Printf("ai: daily assessment failed: %v", err)
		return emptyAssessment()
	}

	var result DailyAssessmentResult
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		log.Printf("ai: daily assessment parse failed: %v", err)
		return emptyAssessment()
	}
	if result.TodayPlan == nil {
		result.TodayPlan = []string{}
	}
	if result.QuickWins == nil {
		result.QuickWins = []string{}
	}
	if result.Risks == nil {
		result.Risks = []string{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	return result
}

// AnalyzeDependencies identifies risks when dependent tasks would be
// blocked. Failures yield an empty list.
func (s *AIService) AnalyzeDependencies(ctx context.Context, taskID, taskTitle string, dependentTasks []string) []string {
	prompt := fmt.Sprintf(`You are analyzing task dependencies to identify potential risks.

Task: %s
Dependent tasks that will be blocked: %s

Please identify potential risks and suggest mitigation strategies.

Format your response as a JSON array of risk descriptions:
["risk1", "risk2", "risk3"]

Focus on practical, actionable risks.`,
		taskTitle, strings.Join(dependentTasks, ", "))

	reply, err := s.chat(ctx, prompt, 0.5)
	if err != nil {
		log.Printf("ai: dependency analysis for task %s failed: %v", taskID, err)
		return []string{}
	}

	var risks []string
	if err := json.Unmarshal([]byte(reply), &risks); err != nil {
		log.Printf("ai: dependency analysis parse failed: %v", err)
		return []string{}
	}
	return risks
}

// TaskAssistanceResult is the reply shape of GetTaskAssistance.
type TaskAssistanceResult struct {
	Advice      string   `json:"advice"`
	Suggestions []string `json:"suggestions"`
	NextSteps   []string `json:"nextSteps"`
}

func emptyAssistance() TaskAssistanceResult {
	return TaskAssistanceResult{
		Advice:      "",
		Suggestions: []string{},
		NextSteps:   []string{},
	}
}

// GetTaskAssistance answers a free-form question about a task in its
// project context. Failures yield the empty shape.
func (s *AIService) GetTaskAssistance(ctx context.Context, taskTitle, taskDescription, userQuery, projectContext string) TaskAssistanceResult {
	var sb strings.Builder
	sb.WriteString("You are an AI assistant helping a user make progress on a task.\n\n")
	sb.WriteString("Task: " + taskTitle + "\n")
	if taskDescription != "" {
		sb.WriteString("Description: " + taskDescription + "\n")
	}
	if projectContext != "" {
		sb.WriteString("Project context: " + projectContext + "\n")
	}
	sb.WriteString("User question: " + userQuery + "\n")
	sb.WriteString(`
Format your response as JSON:
{
  "advice": "Direct answer to the question",
  "suggestions": ["suggestion1", "suggestion2"],
  "nextSteps": ["step1", "step2"]
}

Keep the advice concrete and grounded in the task at hand.`)

	reply, err := s.chat(ctx, sb.String(), 0.7)
	if err != nil {
		log.Printf("ai: task assistance failed: %v", err)
		return emptyAssistance()
	}

	var result TaskAssistanceResult
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		log.Printf("ai: task assistance parse failed: %v", err)
		return emptyAssistance()
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	if result.NextSteps == nil {
		result.NextSteps = []string{}
	}
	return result
}

// SubtaskRecommendation is one reviewed subtask proposal.
type SubtaskRecommendation struct {
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	EstimatedTime    int    `json:"estimatedTime,omitempty"`
	Priority         string `json:"priority,omitempty"`
	SuggestedDueDate string `json:"suggestedDueDate,omitempty"`
}

// TaskReviewResult is the reply shape of ReviewTaskCreation.
type TaskReviewResult struct {
	Suggestions              []string                `json:"suggestions"`
	Questions                []string                `json:"questions"`
	SubtaskRecommendations   []SubtaskRecommendation `json:"subtaskRecommendations"`
	SchedulingRecommendation string                  `json:"schedulingRecommendation"`
}

func emptyReview() TaskReviewResult {
	return TaskReviewResult{
		Suggestions:            []string{},
		Questions:              []string{},
		SubtaskRecommendations: []SubtaskRecommendation{},
	}
}

// TaskDraft is the not-yet-persisted task a review runs against.
type TaskDraft struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	DueDate         string   `json:"dueDate,omitempty"`
	Priority        string   `json:"priority,omitempty"`
	EstimatedTime   int      `json:"estimatedTime,omitempty"`
	SuccessCriteria string   `json:"successCriteria,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// ReviewTaskCreation reviews a draft task before it is saved, weighing
// known calendar events. Failures yield the empty shape.
func (s *AIService) ReviewTaskCreation(ctx context.Context, draft TaskDraft, events []calendar.Event) TaskReviewResult {
	draftJSON, _ := json.Marshal(draft)

	var eventLines []string
	for _, ev := range events {
		eventLines = append(eventLines, fmt.Sprintf("%s (%s - %s)",
			ev.Title, ev.Start.Format("Mon Jan 2 15:04"), ev.End.Format("15:04")))
	}

	prompt := fmt.Sprintf(`You are reviewing a task a user is about to create.

Task data: %s
Known calendar events: %s

Please provide:
1. Suggestions that would make the task clearer or more achievable
2. Questions the user should answer before starting
3. Recommended subtasks with estimates
4. A scheduling recommendation given the calendar events

Format your response as JSON:
{
  "suggestions": ["suggestion1", "suggestion2"],
  "questions": ["question1", "question2"],
  "subtaskRecommendations": [
    {
      "title": "Subtask title",
      "description": "Brief description",
      "estimatedTime": 30,
      "priority": "medium",
      "suggestedDueDate": "2025-07-01"
    }
  ],
  "schedulingRecommendation": "One-sentence recommendation"
}`,
		string(draftJSON), strings.Join(eventLines, "; "))

	reply, err := s.chat(ctx, prompt, 0.7)
	if err != nil {
		log.Printf("ai: task review failed: %v", err)
		return emptyReview()
	}

	var result TaskReviewResult
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		log.Printf("ai: task review parse failed: %v", err)
		return emptyReview()
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	if result.Questions == nil {
		result.Questions = []string{}
	}
	if result.SubtaskRecommendations == nil {
		result.SubtaskRecommendations = []SubtaskRecommendation{}
	}
	return result
}

// GenerateContextQuestions proposes clarifying questions for a draft
// task. Failures yield an empty list.
func (s *AIService) GenerateContextQuestions(ctx context.Context, draft TaskDraft) []string {
	draftJSON, _ := json.Marshal(draft)

	prompt := fmt.Sprintf(`You are helping a user flesh out a new task before they commit to it.

Task data: %s

Generate 3-5 short questions that would surface missing context:
scope, constraints, stakeholders, definition of done.

Format your response as a JSON array of question strings:
["question1", "question2", "question3"]`,
		string(draftJSON))

	reply, err := s.chat(ctx, prompt, 0.7)
	if err != nil {
		log.Printf("ai: context questions failed: %v", err)
		return []string{}
	}

	var questions []string
	if err := json.Unmarshal([]byte(reply), &questions); err != nil {
		log.Printf("ai: context questions parse failed: %v", err)
		return []string{}
	}
	return questions
}

// ProjectTaskSummary is one subtask in a project-analysis request.
type ProjectTaskSummary struct {
	Title         string   `json:"title"`
	EstimatedTime int      `json:"estimatedTime"`
	Priority      string   `json:"priority"`
	Dependencies  []string `json:"dependencies"`
}

// ProjectIntelligenceInput carries the project context for analysis.
type ProjectIntelligenceInput struct {
	Title             string               `json:"title"`
	Tasks             []ProjectTaskSummary `json:"tasks"`
	DueDate           string               `json:"dueDate"`
	CategorySchedules []calendar.Window    `json:"categorySchedules"`
	CalendarEvents    []calendar.Event     `json:"calendarEvents"`
}

// OptimizedSchedule is the ordering recommendation inside an
// intelligence result.
type OptimizedSchedule struct {
	SuggestedOrder []string `json:"suggestedOrder"`
	Rationale      string   `json:"rationale"`
}

// RiskAssessment is the risk section of an intelligence result.
type RiskAssessment struct {
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

// TimeOptimization is the time section of an intelligence result.
type TimeOptimization struct {
	TotalEstimatedMinutes int      `json:"totalEstimatedMinutes"`
	Recommendations       []string `json:"recommendations"`
}

// ProjectIntelligenceResult is the reply shape of AnalyzeProjectIntelligence.
type ProjectIntelligenceResult struct {
	OptimizedSchedule     OptimizedSchedule `json:"optimizedSchedule"`
	CriticalPath          []string          `json:"criticalPath"`
	RiskAssessment        RiskAssessment    `json:"riskAssessment"`
	EfficiencySuggestions []string          `json:"efficiencySuggestions"`
	TimeOptimization      TimeOptimization  `json:"timeOptimization"`
}

// AnalyzeProjectIntelligence runs the full project analysis. Unlike the
// planning helpers this propagates failures to the caller.
func (s *AIService) AnalyzeProjectIntelligence(ctx context.Context, input ProjectIntelligenceInput) (*ProjectIntelligenceResult, error) {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project context: %w", err)
	}

	prompt := fmt.Sprintf(`You are a project planning analyst. Analyze the following project and its tasks.

Project context: %s

Please provide:
1. An optimized task order respecting dependencies and priorities
2. The critical path of tasks that determine the project end date
3. A risk assessment (level: Low/Medium/High with contributing factors)
4. Efficiency suggestions
5. Time optimization guidance

Format your response as JSON:
{
  "optimizedSchedule": {
    "suggestedOrder": ["task1", "task2"],
    "rationale": "Why this order"
  },
  "criticalPath": ["task1", "task3"],
  "riskAssessment": {
    "level": "Medium",
    "factors": ["factor1", "factor2"]
  },
  "efficiencySuggestions": ["suggestion1"],
  "timeOptimization": {
    "totalEstimatedMinutes": 480,
    "recommendations": ["recommendation1"]
  }
}`, string(inputJSON))

	reply, err := s.chat(ctx, prompt, 0.5)
	if err != nil {
		return nil, err
	}

	var result ProjectIntelligenceResult
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		return nil, fmt.Errorf("failed to parse intelligence response: %w (response: %s)", err, reply)
	}
	return &result, nil
}

// CompletionTrends is the trend section of an insights result.
type CompletionTrends struct {
	OnTrack bool   `json:"onTrack"`
	Summary string `json:"summary"`
}

// ProjectInsightsResult is the reply shape of GenerateProjectInsights.
type ProjectInsightsResult struct {
	ProductivityPatterns []string         `json:"productivityPatterns"`
	CompletionTrends     CompletionTrends `json:"completionTrends"`
}

// GenerateProjectInsights summarizes productivity patterns from the
// project's subtask history. Propagates failures to the caller.
func (s *AIService) GenerateProjectInsights(ctx context.Context, projectID string, tasks []ProjectTaskSummary) (*ProjectInsightsResult, error) {
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode task history: %w", err)
	}

	prompt := fmt.Sprintf(`You are analyzing a project's task history to surface productivity insights.

Tasks: %s

Please provide:
1. Productivity patterns visible in the task list
2. Whether completion appears on track, with a one-sentence summary

Format your response as JSON:
{
  "productivityPatterns": ["pattern1", "pattern2"],
  "completionTrends": {
    "onTrack": true,
    "summary": "One-sentence summary"
  }
}`, string(tasksJSON))

	reply, err := s.chat(ctx, prompt, 0.5)
	if err != nil {
		return nil, err
	}

	var result ProjectInsightsResult
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		return nil, fmt.Errorf("failed to parse insights response: %w (response: %s)", err, reply)
	}
	return &result, nil
}
