package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
)

// AssessmentService runs the scheduled batch jobs: the daily planning
// assessment and the dependency check. Both iterate every user and
// isolate per-user failures so one bad account cannot stall the run.
type AssessmentService struct {
	users         repository.UserRepository
	tasks         repository.TaskRepository
	notifications repository.NotificationRepository
	ai            *AIService
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	notifications repository.NotificationRepository,
	ai *AIService,
) *AssessmentService {
	return &AssessmentService{
		users:         users,
		tasks:         tasks,
		notifications: notifications,
		ai:            ai,
	}
}

// JobResult summarizes a batch run.
type JobResult struct {
	UsersProcessed int `json:"usersProcessed"`
	UsersFailed    int `json:"usersFailed"`
}

// RunDailyAssessment generates an AI day plan for each user from
// yesterday's completions and today's pending and overdue work, then
// records it as a reminder notification and an assessment note.
func (s *AssessmentService) RunDailyAssessment(ctx context.Context) (JobResult, error) {
	users, err := s.users.ListAll()
	if err != nil {
		return JobResult{}, err
	}

	var result JobResult
	for _, user := range users {
		if err := s.assessUser(ctx, user.ID); err != nil {
			log.Printf("daily assessment failed for user %s: %v", user.ID, err)
			result.UsersFailed++
			continue
		}
		result.UsersProcessed++
	}
	return result, nil
}

func (s *AssessmentService) assessUser(ctx context.Context, userID string) error {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)

	completed, err := s.tasks.TitlesCompletedBetween(userID, yesterday, today)
	if err != nil {
		return err
	}
	pending, err := s.tasks.TitlesPending(userID)
	if err != nil {
		return err
	}
	overdue, err := s.tasks.TitlesOverdue(userID, now)
	if err != nil {
		return err
	}

	assessment := s.ai.GenerateDailyAssessment(ctx, completed, pending, overdue)

	if err := s.notifications.CreateNotification(&models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeReminder,
		Title:   "Daily Plan Ready",
		Message: fmt.Sprintf("Your plan for today covers %d pending tasks.", len(pending)),
	}); err != nil {
		return err
	}

	content, err := json.Marshal(assessment)
	if err != nil {
		return err
	}
	return s.notifications.CreateCommunication(&models.Communication{
		UserID:  userID,
		Type:    models.CommunicationTypeNote,
		Subject: fmt.Sprintf("Daily Assessment %s", today.Format("2006-01-02")),
		Content: string(content),
	})
}

// RunDependencyCheck flags tasks due today that are blocked by
// incomplete dependencies and tasks that are overdue while others
// depend on them.
func (s *AssessmentService) RunDependencyCheck(ctx context.Context) (JobResult, error) {
	users, err := s.users.ListAll()
	if err != nil {
		return JobResult{}, err
	}

	var result JobResult
	for _, user := range users {
		if err := s.checkUser(ctx, user.ID); err != nil {
			log.Printf("dependency check failed for user %s: %v", user.ID, err)
			result.UsersFailed++
			continue
		}
		result.UsersProcessed++
	}
	return result, nil
}

func (s *AssessmentService) checkUser(ctx context.Context, userID string) error {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	dueToday, err := s.tasks.DueBetweenWithDependencies(userID, today, tomorrow)
	if err != nil {
		return err
	}

	for _, task := range dueToday {
		blocking := incompleteDependencyTitles(task)
		if len(blocking) == 0 {
			continue
		}

		advice := s.ai.AnalyzeDependencies(ctx, task.ID, task.Title, blocking)
		message := fmt.Sprintf("%q is due today but blocked by: %s.", task.Title, strings.Join(blocking, ", "))
		if len(advice) > 0 {
			message += " " + advice[0]
		}

		taskID := task.ID
		if err := s.notifications.CreateNotification(&models.Notification{
			UserID:  userID,
			TaskID:  &taskID,
			Type:    models.NotificationTypeDependency,
			Title:   "Blocked Task Due Today",
			Message: message,
		}); err != nil {
			return err
		}
	}

	overdue, err := s.tasks.OverdueWithDependents(userID, now)
	if err != nil {
		return err
	}

	for _, task := range overdue {
		dependents, err := s.tasks.DependentTitles(userID, task.ID)
		if err != nil {
			return err
		}
		if len(dependents) == 0 {
			continue
		}

		taskID := task.ID
		if err := s.notifications.CreateNotification(&models.Notification{
			UserID: userID,
			TaskID: &taskID,
			Type:   models.NotificationTypeOverdue,
			Title:  "Overdue Task Blocking Others",
			Message: fmt.Sprintf("%q is overdue and blocking: %s.",
				task.Title, strings.Join(dependents, ", ")),
		}); err != nil {
			return err
		}
	}

	return nil
}

// incompleteDependencyTitles lists the unfinished tasks a task still
// waits on.
func incompleteDependencyTitles(task models.Task) []string {
	var titles []string
	for _, edge := range task.Dependencies {
		if edge.Dependency == nil {
			continue
		}
		if edge.Dependency.Status != models.TaskStatusCompleted {
			titles = append(titles, edge.Dependency.Title)
		}
	}
	return titles
}
