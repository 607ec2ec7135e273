package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/easycustoms360/backend/internal/domain"
)

type SLARepo interface {
	ListActive(ctx context.Context) ([]domain.SLARule, error)
	InsertReminder(ctx context.Context, ruleID, questionID uuid.UUID) (bool, error)
}

type QuestionRepo interface {
	FindDueForReminder(ctx context.Context, ruleID uuid.UUID, statuses []string, now time.Time, window time.Duration) ([]domain.Question, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type WorkerRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkerProfile, error)
}

type Notifier interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
}

// Scanner walks active reminder rules on an interval and notifies the parties
// each rule names about questions approaching their deadline. The reminder
// row's unique index keeps every (rule, question) pair to a single send.
type Scanner struct {
	slaRepo      SLARepo
	questionRepo QuestionRepo
	userRepo     UserRepo
	workerRepo   WorkerRepo
	notifier     Notifier
	adminEmail   string
	interval     time.Duration
	workerCount  int
}

func NewScanner(
	slaRepo SLARepo,
	questionRepo QuestionRepo,
	userRepo UserRepo,
	workerRepo WorkerRepo,
	notifier Notifier,
	adminEmail string,
	interval time.Duration,
) *Scanner {
	return &Scanner{
		slaRepo:      slaRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
		workerRepo:   workerRepo,
		notifier:     notifier,
		adminEmail:   adminEmail,
		interval:     interval,
		workerCount:  4,
	}
}

type reminderTask struct {
	rule     domain.SLARule
	question domain.Question
}

// Start runs the scan loop until the context is cancelled.
func (s *Scanner) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.scan(ctx)
			}
		}
	}()
}

func (s *Scanner) scan(ctx context.Context) {
	rules, err := s.slaRepo.ListActive(ctx)
	if err != nil {
		zap.L().Error("failed to load reminder rules", zap.Error(err))
		return
	}
	if len(rules) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(s.workerCount)

	now := time.Now()
	for _, rule := range rules {
		window := time.Duration(rule.MinutesBeforeSLA) * time.Minute
		questions, err := s.questionRepo.FindDueForReminder(ctx, rule.ID, rule.QuestionStatuses, now, window)
		if err != nil {
			zap.L().Error("failed to find questions due for reminder",
				zap.String("rule_id", rule.ID.String()), zap.Error(err))
			continue
		}
		for _, q := range questions {
			task := reminderTask{rule: rule, question: q}
			g.Go(func() error {
				return s.process(ctx, task)
			})
		}
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("error processing reminders", zap.Error(err))
	}
}

func (s *Scanner) process(ctx context.Context, task reminderTask) error {
	inserted, err := s.slaRepo.InsertReminder(ctx, task.rule.ID, task.question.ID)
	if err != nil {
		return fmt.Errorf("insert reminder for question %s: %w", task.question.ID, err)
	}
	if !inserted {
		// Another scan already claimed this pair.
		return nil
	}

	subject := fmt.Sprintf("Question %q is approaching its deadline", task.question.Title)
	body := fmt.Sprintf("Question %s is due at %s and is still %s.",
		task.question.ID, task.question.SLADueAt.Format(time.RFC3339), task.question.Status)

	if task.rule.NotifyUser {
		s.notifyUser(ctx, task.question.UserID, subject, body)
	}
	if task.rule.NotifyAssignee && task.question.AssignedWorkerID != nil {
		s.notifyAssignee(ctx, *task.question.AssignedWorkerID, subject, body)
	}
	if task.rule.NotifyAdmin && s.adminEmail != "" {
		s.enqueue(ctx, s.adminEmail, subject, body)
	}
	return nil
}

func (s *Scanner) notifyUser(ctx context.Context, userID uuid.UUID, subject, body string) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		zap.L().Error("failed to load user for reminder",
			zap.String("user_id", userID.String()), zap.Error(err))
		return
	}
	s.enqueue(ctx, user.Email, subject, body)
}

func (s *Scanner) notifyAssignee(ctx context.Context, workerID uuid.UUID, subject, body string) {
	profile, err := s.workerRepo.FindByID(ctx, workerID)
	if err != nil || profile == nil {
		zap.L().Error("failed to load worker for reminder",
			zap.String("worker_id", workerID.String()), zap.Error(err))
		return
	}
	s.notifyUser(ctx, profile.UserID, subject, body)
}

func (s *Scanner) enqueue(ctx context.Context, to, subject, body string) {
	if err := s.notifier.EnqueueEmail(ctx, to, subject, body); err != nil {
		zap.L().Error("failed to enqueue reminder email",
			zap.String("to", to), zap.Error(err))
	}
}
