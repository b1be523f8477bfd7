package model

import (
	"time"
)

// LearnerProgress 每个学习者一条进度记录
// TotalPoints 单调不减；CompletedModules 与通过的 ModuleCompletion 一一对应。
type LearnerProgress struct {
	BaseModel
	UserID           uint        `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentLevel     ModuleLevel `gorm:"size:20;default:'beginner'" json:"currentLevel"`
	TotalPoints      int         `gorm:"default:0" json:"totalPoints"`
	CompletedModules []uint      `gorm:"type:json;serializer:json" json:"completedModules"`
}

func (LearnerProgress) TableName() string {
	return "learner_progress"
}

// HasCompleted 判断模块是否在完成集合中
func (p *LearnerProgress) HasCompleted(moduleID uint) bool {
	for _, id := range p.CompletedModules {
		if id == moduleID {
			return true
		}
	}
	return false
}

// ModuleCompletion 每个 (学习者, 模块) 的通过记录，重考覆盖不追加
type ModuleCompletion struct {
	BaseModel
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_module" json:"userId"`
	ModuleID    uint      `gorm:"not null;uniqueIndex:idx_user_module" json:"moduleId"`
	Score       int       `gorm:"not null" json:"score"` // 0-100 百分比
	CompletedAt time.Time `json:"completedAt"`
}

func (ModuleCompletion) TableName() string {
	return "module_completions"
}
