package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/todoapi/database"
	"github.com/kbukum/todoapi/errors"
)

// Repository persists tasks. Implementations translate driver errors into
// the application error envelope.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, t *Task) error
}

type gormRepository struct {
	db *database.DB
}

// NewRepository creates a GORM-backed task repository.
func NewRepository(db *database.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, t *Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return database.WrapError(err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.TaskNotFound(id.String())
		}
		return nil, database.WrapError(err)
	}
	return &t, nil
}

func (r *gormRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at").
		Find(&tasks).Error
	if err != nil {
		return nil, database.WrapError(err)
	}
	return tasks, nil
}

func (r *gormRepository) Update(ctx context.Context, t *Task) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return database.WrapError(err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, t *Task) error {
	if err := r.db.WithContext(ctx).Delete(&Task{}, "id = ?", t.ID).Error; err != nil {
		return database.WrapError(err)
	}
	return nil
}

var _ Repository = (*gormRepository)(nil)
