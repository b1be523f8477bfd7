package repository

import (
	"ailearn_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByToken(token string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("token = ?", token).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
