package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/todoapi/database"
	"github.com/kbukum/todoapi/errors"
)

// Repository persists user records. Implementations translate driver errors
// into the application error envelope.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, u *User) error
}

type gormRepository struct {
	db *database.DB
}

// NewRepository creates a GORM-backed user repository.
func NewRepository(db *database.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if database.IsDuplicateError(err) {
			return errors.UserAlreadyExists(u.Username)
		}
		return database.WrapError(err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.UserNotFound(id.String())
		}
		return nil, database.WrapError(err)
	}
	return &u, nil
}

func (r *gormRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.UserNotFound(username)
		}
		return nil, database.WrapError(err)
	}
	return &u, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.UserNotFound(email)
		}
		return nil, database.WrapError(err)
	}
	return &u, nil
}

func (r *gormRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, database.WrapError(err)
	}
	return count > 0, nil
}

func (r *gormRepository) Update(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		if database.IsDuplicateError(err) {
			return errors.UserAlreadyExists(u.Username)
		}
		return database.WrapError(err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Delete(&User{}, "id = ?", u.ID).Error; err != nil {
		return database.WrapError(err)
	}
	return nil
}

var _ Repository = (*gormRepository)(nil)
