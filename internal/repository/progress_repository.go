package repository

import (
	"ailearn_backend/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// GetOrCreate 读取进度，不存在则创建默认记录（beginner / 0 分 / 空完成集合）。
// FirstOrCreate 幂等，同一学习者并发首读最多一条记录（user_id 唯一键兜底）。
func (r *ProgressRepository) GetOrCreate(userID uint) (*model.LearnerProgress, error) {
	var progress model.LearnerProgress
	err := r.DB.
		Where(model.LearnerProgress{UserID: userID}).
		Attrs(model.LearnerProgress{CurrentLevel: model.Beginner, CompletedModules: []uint{}}).
		FirstOrCreate(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(progress *model.LearnerProgress) error {
	return r.DB.Save(progress).Error
}

// RecordPass 在单事务内落一次通过：
//   - 完成记录按 (user_id, module_id) 唯一键插入；已存在（重考或并发双提交）
//     则覆盖分数与时间且不再加分
//   - 首次通过才加分；积分用 total_points = total_points + ? 原子自增，
//     不同模块的并发通过互不丢分
//   - 完成集合以 module_completions 为准在事务内重建，不做读改写
//
// 返回值 newlyCompleted 标识是否首次通过。
func (r *ProgressRepository) RecordPass(userID, moduleID uint, score, points int) (*model.LearnerProgress, bool, error) {
	var progress model.LearnerProgress
	newlyCompleted := false

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(model.LearnerProgress{UserID: userID}).
			Attrs(model.LearnerProgress{CurrentLevel: model.Beginner, CompletedModules: []uint{}}).
			FirstOrCreate(&progress).Error; err != nil {
			return err
		}

		now := time.Now()
		completion := model.ModuleCompletion{
			UserID:      userID,
			ModuleID:    moduleID,
			Score:       score,
			CompletedAt: now,
		}

		err := tx.Create(&completion).Error
		switch {
		case err == nil:
			newlyCompleted = true
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// 重考：只覆盖分数和时间
			if err := tx.Model(&model.ModuleCompletion{}).
				Where("user_id = ? AND module_id = ?", userID, moduleID).
				Updates(map[string]interface{}{"score": score, "completed_at": now}).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if newlyCompleted {
			if err := tx.Model(&model.LearnerProgress{}).
				Where("user_id = ?", userID).
				UpdateColumn("total_points", gorm.Expr("total_points + ?", points)).Error; err != nil {
				return err
			}

			var completedIDs []uint
			if err := tx.Model(&model.ModuleCompletion{}).
				Where("user_id = ?", userID).
				Order("completed_at ASC").
				Pluck("module_id", &completedIDs).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.LearnerProgress{}).
				Where("user_id = ?", userID).
				Update("completed_modules", completedIDs).Error; err != nil {
				return err
			}
		}

		// 返回事务内的最终状态
		return tx.Where("user_id = ?", userID).First(&progress).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &progress, newlyCompleted, nil
}

func (r *ProgressRepository) FindCompletion(userID, moduleID uint) (*model.ModuleCompletion, error) {
	var completion model.ModuleCompletion
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&completion).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *ProgressRepository) ListCompletions(userID uint) ([]model.ModuleCompletion, error) {
	var completions []model.ModuleCompletion
	err := r.DB.Where("user_id = ?", userID).Order("completed_at DESC").Find(&completions).Error
	return completions, err
}

type LeaderboardRow struct {
	UserID      uint   `json:"userId"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	TotalPoints int    `json:"totalPoints"`
}

func (r *ProgressRepository) TopByPoints(limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.DB.Model(&model.LearnerProgress{}).
		Select("learner_progress.user_id, users.name, users.avatar, learner_progress.total_points").
		Joins("JOIN users ON users.id = learner_progress.user_id").
		Order("learner_progress.total_points DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
