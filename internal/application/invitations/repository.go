package invitations

import (
	"context"
	"errors"
	"strings"
	"time"

	"wedding-backend/internal/domain"

	"gorm.io/gorm"
)

// Repository is the persistence boundary for invitation records.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*domain.Invitation, error)
	FindByID(ctx context.Context, id uint) (*domain.Invitation, error)
	FindAll(ctx context.Context) ([]domain.Invitation, error)
	Create(ctx context.Context, inv *domain.Invitation) error
	// Update writes the RSVP sets only if the stored revision still matches inv.Revision.
	Update(ctx context.Context, inv *domain.Invitation) error
	Delete(ctx context.Context, id uint) error
}

// GormRepository implements Repository on GORM.
type GormRepository struct {
	DB *gorm.DB
}

// FindByCode returns ErrNotFound on a miss. Codes are matched exactly.
func (r *GormRepository) FindByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := r.DB.WithContext(ctx).Where("invitation_code = ?", code).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *GormRepository) FindByID(ctx context.Context, id uint) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := r.DB.WithContext(ctx).First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *GormRepository) FindAll(ctx context.Context) ([]domain.Invitation, error) {
	var out []domain.Invitation
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Create pre-checks the code and still maps a unique-index violation (lost race)
// to ErrCodeExists.
func (r *GormRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.Invitation{}).
		Where("invitation_code = ?", inv.InvitationCode).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrCodeExists
	}
	if inv.Revision == 0 {
		inv.Revision = 1
	}
	if err := r.DB.WithContext(ctx).Create(inv).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCodeExists
		}
		return err
	}
	return nil
}

func (r *GormRepository) Update(ctx context.Context, inv *domain.Invitation) error {
	now := time.Now()
	res := r.DB.WithContext(ctx).Model(&domain.Invitation{}).
		Where("id = ? AND revision = ?", inv.ID, inv.Revision).
		Updates(map[string]interface{}{
			"submitted_rsvp_members": inv.SubmittedRSVPMembers,
			"accepting_members":      inv.AcceptingMembers,
			"revision":               inv.Revision + 1,
			"updated_at":             now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, inv.ID); err != nil {
			return err
		}
		return ErrConflict
	}
	inv.Revision++
	inv.UpdatedAt = now
	return nil
}

// Delete is permanent.
func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&domain.Invitation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	// postgres 23505 / sqlite constraint text when TranslateError is off
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
