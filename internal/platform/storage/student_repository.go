package storage

import (
	"context"

	"gorm.io/gorm"

	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/errors"
)

// StudentRepository persists student records.
type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "student.create", "failed to create student", err)
	}
	return nil
}

// FindByID returns nil when no student matches.
func (r *StudentRepository) FindByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "student.find_by_id", "failed to find student", err)
	}
	return &student, nil
}

func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Save(student).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "student.update", "failed to update student", err)
	}
	return nil
}

// Delete reports whether a row was actually removed.
func (r *StudentRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return false, errors.Wrap(errors.KindStorage, "student.delete", "failed to delete student", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// List returns one page of students ordered by id, plus the total count.
func (r *StudentRepository) List(ctx context.Context, limit, offset int) ([]models.Student, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "student.count", "failed to count students", err)
	}

	var students []models.Student
	err := r.db.WithContext(ctx).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&students).Error
	if err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "student.list", "failed to list students", err)
	}
	return students, total, nil
}
