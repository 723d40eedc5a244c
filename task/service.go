package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/todoapi/auth/identity"
	"github.com/kbukum/todoapi/errors"
	"github.com/kbukum/todoapi/logger"
	"github.com/kbukum/todoapi/validation"
)

// Service implements the task operations. Every per-task operation looks the
// record up first, so a missing task reports not-found before any ownership
// decision is made.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// NewService wires the task service.
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log.WithComponent("task")}
}

// Create stores a new task owned by the caller with status TO_BE_DONE.
func (s *Service) Create(ctx context.Context, req CreateRequest, caller *identity.Identity) (*Response, error) {
	if caller == nil {
		return nil, errors.Unauthorized("")
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	t := &Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    Priority(req.Priority),
		Status:      StatusToBeDone,
		UserID:      caller.UserID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info("Task created", map[string]interface{}{
		logger.FieldTaskID: t.ID.String(),
		logger.FieldUserID: caller.UserID.String(),
	})
	resp := toResponse(t)
	return &resp, nil
}

// FindByID returns a task the caller owns or may administer.
func (s *Service) FindByID(ctx context.Context, taskID uuid.UUID, caller *identity.Identity) (*Response, error) {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(t.UserID, caller); err != nil {
		return nil, err
	}
	resp := toResponse(t)
	return &resp, nil
}

// ListOwn returns every task owned by the caller, oldest first.
func (s *Service) ListOwn(ctx context.Context, caller *identity.Identity) ([]Response, error) {
	if caller == nil {
		return nil, errors.Unauthorized("")
	}
	tasks, err := s.repo.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return toResponses(tasks), nil
}

// Update applies a partial update to an existing task.
func (s *Service) Update(ctx context.Context, taskID uuid.UUID, req UpdateRequest, caller *identity.Identity) (*Response, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(t.UserID, caller); err != nil {
		return nil, err
	}

	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != "" {
		t.Priority = Priority(req.Priority)
	}
	if req.Status != "" {
		t.Status = Status(req.Status)
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info("Task updated", map[string]interface{}{
		logger.FieldTaskID: t.ID.String(),
	})
	resp := toResponse(t)
	return &resp, nil
}

// Delete removes a task after the lookup and ownership checks, in that order.
func (s *Service) Delete(ctx context.Context, taskID uuid.UUID, caller *identity.Identity) error {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := identity.Authorize(t.UserID, caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t); err != nil {
		return err
	}
	s.log.Info("Task deleted", map[string]interface{}{
		logger.FieldTaskID: t.ID.String(),
	})
	return nil
}
