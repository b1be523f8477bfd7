package service

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type LearningService struct {
	ModuleRepo   *repository.ModuleRepository
	ProgressRepo *repository.ProgressRepository
}

func NewLearningService(
	moduleRepo *repository.ModuleRepository,
	progressRepo *repository.ProgressRepository,
) *LearningService {
	return &LearningService{
		ModuleRepo:   moduleRepo,
		ProgressRepo: progressRepo,
	}
}

// ModuleListItem 学生端模块列表项，不含 markdown 正文
type ModuleListItem struct {
	ID              uint              `json:"id"`
	Level           model.ModuleLevel `json:"level"`
	OrderIndex      int               `json:"orderIndex"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Objectives      []string          `json:"objectives"`
	DurationMinutes int               `json:"durationMinutes"`
	Prerequisites   []uint            `json:"prerequisites,omitempty"`
	Unlocked        bool              `json:"unlocked"`
	Completed       bool              `json:"completed"`
}

// ComputeUnlocked 对一个 level 内按 order_index 排序的模块列表计算解锁状态。
// 规则：order_index == 1 恒解锁；n > 1 当且仅当同级 order_index == n-1 的
// 模块在完成集合中；前驱缺失（数据空洞）按锁定处理。纯函数，无副作用。
func ComputeUnlocked(modules []model.Module, completed map[uint]bool) []bool {
	byOrder := make(map[int]*model.Module, len(modules))
	for i := range modules {
		byOrder[modules[i].OrderIndex] = &modules[i]
	}

	unlocked := make([]bool, len(modules))
	for i, m := range modules {
		if m.OrderIndex == 1 {
			unlocked[i] = true
			continue
		}
		prev, ok := byOrder[m.OrderIndex-1]
		if !ok {
			continue
		}
		unlocked[i] = completed[prev.ID]
	}
	return unlocked
}

// GetLevelModules 返回某等级的模块列表及解锁/完成状态。
// userID == 0 视为匿名访客，只有每级第一个模块解锁。
func (s *LearningService) GetLevelModules(level model.ModuleLevel, userID uint) ([]ModuleListItem, error) {
	if !model.IsValidLevel(level) {
		return nil, util.ErrModuleNotFound
	}

	modules, err := s.ModuleRepo.FindPublishedByLevel(level)
	if err != nil {
		return nil, err
	}

	completed := map[uint]bool{}
	if userID != 0 {
		progress, err := s.ProgressRepo.GetOrCreate(userID)
		if err != nil {
			return nil, err
		}
		for _, id := range progress.CompletedModules {
			completed[id] = true
		}
	}

	unlocked := ComputeUnlocked(modules, completed)

	items := make([]ModuleListItem, len(modules))
	for i, m := range modules {
		items[i] = ModuleListItem{
			ID:              m.ID,
			Level:           m.Level,
			OrderIndex:      m.OrderIndex,
			Title:           m.Title,
			Description:     m.Description,
			Objectives:      m.Objectives,
			DurationMinutes: m.DurationMinutes,
			Prerequisites:   m.Prerequisites,
			Unlocked:        unlocked[i],
			Completed:       completed[m.ID],
		}
	}
	return items, nil
}

// GetModule 学生端模块详情（含 markdown 正文）。
// 锁定的模块返回 ErrModuleLocked，未发布的返回 ErrModuleNotFound。
func (s *LearningService) GetModule(moduleID, userID uint) (*model.Module, error) {
	module, err := s.ModuleRepo.FindPublishedByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	items, err := s.GetLevelModules(module.Level, userID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == module.ID {
			if !item.Unlocked {
				return nil, util.ErrModuleLocked
			}
			return module, nil
		}
	}
	// 列表里找不到自己只可能是发布状态竞争，按不存在处理
	return nil, util.ErrModuleNotFound
}
