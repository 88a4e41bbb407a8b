package service

import (
	"context"
	"errors"
	"strings"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotAuthorized = errors.New("not-authorized")
	ErrInvalidText   = errors.New("task text must be a non-empty string")
	ErrNotOwner      = errors.New("only the owner may change task privacy")
)

const maxTaskTextLen = 4096

// TaskPublisher receives the old and new state of a mutated task so
// subscribers can be notified. Either side may be nil (insert/delete).
type TaskPublisher interface {
	PublishTask(old, updated *domain.Task)
}

// TaskService implements the three task methods plus the privacy toggle.
// All mutations go straight to the store (single-document, last write wins)
// and are then fanned out through the publisher.
type TaskService struct {
	tasks     *repository.TaskRepository
	users     *repository.UserRepository
	publisher TaskPublisher
}

func NewTaskService(db *pgxpool.Pool, publisher TaskPublisher) *TaskService {
	return &TaskService{
		tasks:     repository.NewTaskRepository(db),
		users:     repository.NewUserRepository(db),
		publisher: publisher,
	}
}

// Insert creates a task owned by callerID. callerID 0 means an
// unauthenticated caller and fails with ErrNotAuthorized before any write.
func (s *TaskService) Insert(ctx context.Context, callerID int64, text string) (*domain.Task, error) {
	if callerID == 0 {
		return nil, ErrNotAuthorized
	}
	if err := ValidateTaskText(text); err != nil {
		return nil, err
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, ErrNotAuthorized
	}

	task := &domain.Task{
		Text:     text,
		OwnerID:  caller.ID,
		Username: caller.Username,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(nil, task)
	return task, nil
}

// Remove deletes the task. A missing task is a silent no-op. There is no
// ownership check here, matching the collaborative-list semantics.
func (s *TaskService) Remove(ctx context.Context, id int64) error {
	old, err := s.tasks.Delete(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}

	s.publish(old, nil)
	return nil
}

// SetChecked flips the checked flag. Missing task is a silent no-op; no
// ownership check, same as Remove.
func (s *TaskService) SetChecked(ctx context.Context, id int64, checked bool) error {
	old, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}

	updated, err := s.tasks.SetChecked(ctx, id, checked)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}

	s.publish(old, updated)
	return nil
}

// SetPrivate flips the private flag. Unlike Remove/SetChecked this is
// owner-only, since it controls who may observe the task at all.
func (s *TaskService) SetPrivate(ctx context.Context, callerID, id int64, private bool) error {
	if callerID == 0 {
		return ErrNotAuthorized
	}

	old, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}
	if old.OwnerID != callerID {
		return ErrNotOwner
	}

	updated, err := s.tasks.SetPrivate(ctx, id, private)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}

	s.publish(old, updated)
	return nil
}

// List returns the snapshot visible to viewerID plus the incomplete count.
func (s *TaskService) List(ctx context.Context, viewerID int64) ([]*domain.Task, int64, error) {
	tasks, err := s.tasks.ListVisible(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	incomplete, err := s.tasks.CountIncomplete(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return tasks, incomplete, nil
}

func (s *TaskService) publish(old, updated *domain.Task) {
	if s.publisher != nil {
		s.publisher.PublishTask(old, updated)
	}
}

// ValidateTaskText enforces the insert boundary check: non-empty after
// trimming, bounded length.
func ValidateTaskText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrInvalidText
	}
	if len(text) > maxTaskTextLen {
		return ErrInvalidText
	}
	return nil
}
