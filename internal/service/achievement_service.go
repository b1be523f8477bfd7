package service

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/util"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	CheckinRepo     *repository.CheckinRepository
	ModuleRepo      *repository.ModuleRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	checkinRepo *repository.CheckinRepository,
	moduleRepo *repository.ModuleRepository,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		CheckinRepo:     checkinRepo,
		ModuleRepo:      moduleRepo,
	}
}

// 成就定义：code 幂等键 + 名称 + 奖励XP
type achievementDef struct {
	Code string
	Name string
	XP   int
}

var milestoneDefs = []struct {
	Count int
	Def   achievementDef
}{
	{1, achievementDef{Code: "first_module", Name: "首个模块通过", XP: 20}},
	{5, achievementDef{Code: "modules_5", Name: "通过 5 个模块", XP: 50}},
	{10, achievementDef{Code: "modules_10", Name: "通过 10 个模块", XP: 100}},
}

// OnModulePassed 模块首次通过后的成就评估。
// 所有成就按 (user, code) 幂等授予，重复触发不重复发。
func (s *AchievementService) OnModulePassed(userID uint, progress *model.LearnerProgress, level model.ModuleLevel) error {
	completedCount := len(progress.CompletedModules)

	for _, m := range milestoneDefs {
		if completedCount >= m.Count {
			if err := s.award(userID, m.Def); err != nil {
				return err
			}
		}
	}

	// 单级全通成就
	done, err := s.levelCompleted(progress, level)
	if err != nil {
		return err
	}
	if done {
		def := achievementDef{
			Code: fmt.Sprintf("level_%s", level),
			Name: fmt.Sprintf("完成 %s 级全部模块", level),
			XP:   150,
		}
		if err := s.award(userID, def); err != nil {
			return err
		}
	}

	return nil
}

func (s *AchievementService) levelCompleted(progress *model.LearnerProgress, level model.ModuleLevel) (bool, error) {
	modules, err := s.ModuleRepo.FindPublishedByLevel(level)
	if err != nil {
		return false, err
	}
	if len(modules) == 0 {
		return false, nil
	}
	for _, m := range modules {
		if !progress.HasCompleted(m.ID) {
			return false, nil
		}
	}
	return true, nil
}

func (s *AchievementService) award(userID uint, def achievementDef) error {
	_, err := s.AchievementRepo.Award(&model.Achievement{
		UserID:   userID,
		Code:     def.Code,
		Name:     def.Name,
		EarnedXP: def.XP,
	})
	return err
}

func (s *AchievementService) GetUserAchievements(userID uint) ([]model.Achievement, error) {
	return s.AchievementRepo.FindByUserID(userID)
}

type CheckinStats struct {
	TotalDays     int64 `json:"totalDays"`
	CurrentStreak int   `json:"currentStreak"`
	CheckedToday  bool  `json:"checkedToday"`
}

// Checkin 每日签到，一天一次
func (s *AchievementService) Checkin(userID uint) (*CheckinStats, error) {
	now := time.Now()

	_, err := s.CheckinRepo.FindByUserAndDate(userID, now)
	if err == nil {
		return nil, util.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.CheckinRepo.Create(&model.Checkin{UserID: userID, CheckinAt: now}); err != nil {
		return nil, err
	}

	return s.GetCheckinStats(userID)
}

// GetCheckinStats 总签到天数 + 当前连续天数
func (s *AchievementService) GetCheckinStats(userID uint) (*CheckinStats, error) {
	total, err := s.CheckinRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.CheckinRepo.ListRecent(userID, 366)
	if err != nil {
		return nil, err
	}

	days := make([]time.Time, len(recent))
	for i, c := range recent {
		days[i] = c.CheckinAt
	}

	now := time.Now()
	streak := CurrentStreak(days, now)

	checkedToday := len(days) > 0 && sameDay(days[0], now)

	return &CheckinStats{
		TotalDays:     total,
		CurrentStreak: streak,
		CheckedToday:  checkedToday,
	}, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CurrentStreak 计算截至 now 的连续签到天数。
// days 需按时间倒序；今天未签到时从昨天起算，中断即停。
func CurrentStreak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	expected := startOfDay(now)
	if !sameDay(days[0], now) {
		expected = expected.AddDate(0, 0, -1)
	}

	streak := 0
	for _, d := range days {
		day := startOfDay(d)
		if day.Equal(expected) {
			streak++
			expected = expected.AddDate(0, 0, -1)
			continue
		}
		if day.Before(expected) {
			break
		}
		// 同一天多条记录（历史数据），跳过
	}
	return streak
}
