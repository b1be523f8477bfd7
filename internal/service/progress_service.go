package service

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/pkg/cache"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	Cache        *cache.Cache
	CacheTTL     time.Duration
}

func NewProgressService(progressRepo *repository.ProgressRepository, c *cache.Cache, ttl time.Duration) *ProgressService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ProgressService{
		ProgressRepo: progressRepo,
		Cache:        c,
		CacheTTL:     ttl,
	}
}

// ProgressView 学生端进度视图
type ProgressView struct {
	CurrentLevel     model.ModuleLevel        `json:"currentLevel"`
	TotalPoints      int                      `json:"totalPoints"`
	CompletedModules []uint                   `json:"completedModules"`
	Completions      []model.ModuleCompletion `json:"completions"`
}

func defaultProgressView() *ProgressView {
	return &ProgressView{
		CurrentLevel:     model.Beginner,
		TotalPoints:      0,
		CompletedModules: []uint{},
		Completions:      []model.ModuleCompletion{},
	}
}

func progressCacheKey(userID uint) string {
	return fmt.Sprintf("progress:%d", userID)
}

// GetProgress 读取进度；首读自动建默认记录。
// userID == 0（匿名）返回内存默认结构，不落库。
// 短窗口内的并发重复读取由缓存合并（同一 key 只打一次库）。
func (s *ProgressService) GetProgress(ctx context.Context, userID uint) (*ProgressView, error) {
	if userID == 0 {
		return defaultProgressView(), nil
	}

	data, err := s.Cache.GetOrFetch(ctx, progressCacheKey(userID), s.CacheTTL, func(ctx context.Context) ([]byte, error) {
		view, err := s.loadProgress(userID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(view)
	})
	if err != nil {
		return nil, err
	}

	var view ProgressView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *ProgressService) loadProgress(userID uint) (*ProgressView, error) {
	progress, err := s.ProgressRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	completions, err := s.ProgressRepo.ListCompletions(userID)
	if err != nil {
		return nil, err
	}

	view := defaultProgressView()
	view.CurrentLevel = progress.CurrentLevel
	view.TotalPoints = progress.TotalPoints
	if progress.CompletedModules != nil {
		view.CompletedModules = progress.CompletedModules
	}
	view.Completions = completions
	return view, nil
}

// InvalidateCache 写路径（测验通过）之后主动失效
func (s *ProgressService) InvalidateCache(userID uint) {
	s.Cache.Invalidate(context.Background(), progressCacheKey(userID))
}

func (s *ProgressService) GetLeaderboard(limit int) ([]repository.LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.ProgressRepo.TopByPoints(limit)
}
