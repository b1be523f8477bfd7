package repository

import (
	"ailearn_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindByUserID(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&achievements).Error
	return achievements, err
}

// Award 按 (user_id, code) 幂等授予：已有记录返回 false 不重复发
func (r *AchievementRepository) Award(a *model.Achievement) (bool, error) {
	err := r.DB.Create(a).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	return false, err
}
