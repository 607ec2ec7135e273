package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/internal/domain"
)

func NewMock(t *testing.T) (*Scanner, *MockSLARepo, *MockQuestionRepo, *MockUserRepo, *MockWorkerRepo, *MockNotifier) {
	ctrl := gomock.NewController(t)
	slaRepo := NewMockSLARepo(ctrl)
	questionRepo := NewMockQuestionRepo(ctrl)
	userRepo := NewMockUserRepo(ctrl)
	workerRepo := NewMockWorkerRepo(ctrl)
	notifier := NewMockNotifier(ctrl)
	scanner := NewScanner(slaRepo, questionRepo, userRepo, workerRepo, notifier, "admin@example.com", time.Minute)
	defer ctrl.Finish()
	return scanner, slaRepo, questionRepo, userRepo, workerRepo, notifier
}

func dueQuestion(userID uuid.UUID) domain.Question {
	return domain.Question{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    "Tariff code",
		Status:   "assigned",
		SLADueAt: time.Now().Add(30 * time.Minute),
	}
}

func TestScanNotifiesDueQuestions(t *testing.T) {
	scanner, slaRepo, questionRepo, userRepo, _, notifier := NewMock(t)
	userID := uuid.New()
	rule := domain.SLARule{
		ID:               uuid.New(),
		MinutesBeforeSLA: 60,
		QuestionStatuses: []string{"assigned"},
		NotifyUser:       true,
		Active:           true,
	}
	questions := []domain.Question{dueQuestion(userID), dueQuestion(userID)}

	slaRepo.EXPECT().ListActive(gomock.Any()).Return([]domain.SLARule{rule}, nil)
	questionRepo.EXPECT().
		FindDueForReminder(gomock.Any(), rule.ID, rule.QuestionStatuses, gomock.Any(), time.Hour).
		Return(questions, nil)
	for _, q := range questions {
		slaRepo.EXPECT().InsertReminder(gomock.Any(), rule.ID, q.ID).Return(true, nil)
	}
	userRepo.EXPECT().FindByID(gomock.Any(), userID).
		Return(&domain.User{ID: userID, Email: "user@example.com"}, nil).Times(2)
	notifier.EXPECT().
		EnqueueEmail(gomock.Any(), "user@example.com", gomock.Any(), gomock.Any()).
		Return(nil).Times(2)

	scanner.scan(context.Background())
}

func TestScanSkipsClaimedPairs(t *testing.T) {
	scanner, slaRepo, questionRepo, _, _, _ := NewMock(t)
	rule := domain.SLARule{
		ID:               uuid.New(),
		MinutesBeforeSLA: 60,
		QuestionStatuses: []string{"assigned"},
		NotifyUser:       true,
		Active:           true,
	}
	q := dueQuestion(uuid.New())

	slaRepo.EXPECT().ListActive(gomock.Any()).Return([]domain.SLARule{rule}, nil)
	questionRepo.EXPECT().
		FindDueForReminder(gomock.Any(), rule.ID, rule.QuestionStatuses, gomock.Any(), time.Hour).
		Return([]domain.Question{q}, nil)
	slaRepo.EXPECT().InsertReminder(gomock.Any(), rule.ID, q.ID).Return(false, nil)

	scanner.scan(context.Background())
}

func TestScanNotifiesAssigneeAndAdmin(t *testing.T) {
	scanner, slaRepo, questionRepo, userRepo, workerRepo, notifier := NewMock(t)
	workerUserID := uuid.New()
	workerID := uuid.New()
	rule := domain.SLARule{
		ID:               uuid.New(),
		MinutesBeforeSLA: 30,
		QuestionStatuses: []string{"assigned"},
		NotifyAssignee:   true,
		NotifyAdmin:      true,
		Active:           true,
	}
	q := dueQuestion(uuid.New())
	q.AssignedWorkerID = &workerID

	slaRepo.EXPECT().ListActive(gomock.Any()).Return([]domain.SLARule{rule}, nil)
	questionRepo.EXPECT().
		FindDueForReminder(gomock.Any(), rule.ID, rule.QuestionStatuses, gomock.Any(), 30*time.Minute).
		Return([]domain.Question{q}, nil)
	slaRepo.EXPECT().InsertReminder(gomock.Any(), rule.ID, q.ID).Return(true, nil)
	workerRepo.EXPECT().FindByID(gomock.Any(), workerID).
		Return(&domain.WorkerProfile{ID: workerID, UserID: workerUserID}, nil)
	userRepo.EXPECT().FindByID(gomock.Any(), workerUserID).
		Return(&domain.User{ID: workerUserID, Email: "worker@example.com"}, nil)
	notifier.EXPECT().
		EnqueueEmail(gomock.Any(), "worker@example.com", gomock.Any(), gomock.Any()).Return(nil)
	notifier.EXPECT().
		EnqueueEmail(gomock.Any(), "admin@example.com", gomock.Any(), gomock.Any()).Return(nil)

	scanner.scan(context.Background())
}

func TestScanSurvivesRepoErrors(t *testing.T) {
	t.Run("Rule listing error", func(t *testing.T) {
		scanner, slaRepo, _, _, _, _ := NewMock(t)
		slaRepo.EXPECT().ListActive(gomock.Any()).Return(nil, errors.New("db error"))

		scanner.scan(context.Background())
	})

	t.Run("Due query error skips the rule", func(t *testing.T) {
		scanner, slaRepo, questionRepo, _, _, _ := NewMock(t)
		rule := domain.SLARule{ID: uuid.New(), MinutesBeforeSLA: 60, QuestionStatuses: []string{"assigned"}}

		slaRepo.EXPECT().ListActive(gomock.Any()).Return([]domain.SLARule{rule}, nil)
		questionRepo.EXPECT().
			FindDueForReminder(gomock.Any(), rule.ID, rule.QuestionStatuses, gomock.Any(), time.Hour).
			Return(nil, errors.New("db error"))

		scanner.scan(context.Background())
	})

	t.Run("Insert error does not stop other reminders", func(t *testing.T) {
		scanner, slaRepo, questionRepo, userRepo, _, notifier := NewMock(t)
		userID := uuid.New()
		rule := domain.SLARule{
			ID:               uuid.New(),
			MinutesBeforeSLA: 60,
			QuestionStatuses: []string{"assigned"},
			NotifyUser:       true,
		}
		failing := dueQuestion(userID)
		healthy := dueQuestion(userID)

		slaRepo.EXPECT().ListActive(gomock.Any()).Return([]domain.SLARule{rule}, nil)
		questionRepo.EXPECT().
			FindDueForReminder(gomock.Any(), rule.ID, rule.QuestionStatuses, gomock.Any(), time.Hour).
			Return([]domain.Question{failing, healthy}, nil)
		slaRepo.EXPECT().InsertReminder(gomock.Any(), rule.ID, failing.ID).Return(false, errors.New("db error"))
		slaRepo.EXPECT().InsertReminder(gomock.Any(), rule.ID, healthy.ID).Return(true, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), userID).
			Return(&domain.User{ID: userID, Email: "user@example.com"}, nil)
		notifier.EXPECT().
			EnqueueEmail(gomock.Any(), "user@example.com", gomock.Any(), gomock.Any()).Return(nil)

		scanner.scan(context.Background())
	})
}

func TestStartStopsOnContextCancel(t *testing.T) {
	scanner, slaRepo, _, _, _, _ := NewMock(t)
	scanner.interval = 5 * time.Millisecond

	done := make(chan struct{})
	slaRepo.EXPECT().ListActive(gomock.Any()).DoAndReturn(
		func(ctx context.Context) ([]domain.SLARule, error) {
			select {
			case done <- struct{}{}:
			default:
			}
			return nil, nil
		}).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	scanner.Start(ctx)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scanner never ticked")
	}
	cancel()
}
