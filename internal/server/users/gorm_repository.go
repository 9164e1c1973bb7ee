package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rosterkeeper/internal/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// GormRepository persists users through GORM. It works against PostgreSQL in
// production and against SQLite in tests.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, user *User) (*User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, shared.ErrorConflict
		}
		return nil, fmt.Errorf("error inserting user: %w", err)
	}
	return user, nil
}

func (r *GormRepository) GetByID(ctx context.Context, id uint) (*User, error) {
	user := &User{}
	if err := r.db.WithContext(ctx).First(user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("error selecting user: %w", err)
	}
	return user, nil
}

func (r *GormRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("error selecting user by email: %w", err)
	}
	return user, nil
}

func (r *GormRepository) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// Update saves the whole row, so email, hash and signature change together.
func (r *GormRepository) Update(ctx context.Context, user *User) (*User, error) {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, shared.ErrorConflict
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return fmt.Errorf("error deleting user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrorNotFound
	}
	return nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return n, nil
}

func (r *GormRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, "role")
}

func (r *GormRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, "status")
}

type groupRow struct {
	Name  string
	Count int64
}

func (r *GormRepository) groupCount(ctx context.Context, column string) (map[string]int64, error) {
	var rows []groupRow
	err := r.db.WithContext(ctx).Model(&User{}).
		Select(column + " as name, count(*) as count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error grouping users by %s: %w", column, err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Name] = row.Count
	}
	return out, nil
}

// isDuplicate recognizes unique-constraint violations both from the GORM
// error translator and from the raw pgx driver.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
