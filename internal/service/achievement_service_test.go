package service

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/util"
	"errors"
	"testing"
	"time"
)

func day(t time.Time, offset int) time.Time {
	return t.AddDate(0, 0, offset)
}

func TestCurrentStreak(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"no checkins", nil, 0},
		{"today only", []time.Time{now}, 1},
		{"today and yesterday", []time.Time{now, day(now, -1)}, 2},
		{"three consecutive days", []time.Time{now, day(now, -1), day(now, -2)}, 3},
		{"gap breaks the streak", []time.Time{now, day(now, -1), day(now, -3)}, 2},
		{"not checked today counts from yesterday", []time.Time{day(now, -1), day(now, -2)}, 2},
		{"stale history only", []time.Time{day(now, -5), day(now, -6)}, 0},
		{"duplicate same-day records skipped", []time.Time{now, now, day(now, -1)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.days, now); got != tt.want {
				t.Errorf("CurrentStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func newAchievementStack(t *testing.T) (*AchievementService, *repository.AchievementRepository) {
	t.Helper()
	db := newTestDB(t)
	achRepo := repository.NewAchievementRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	return NewAchievementService(achRepo, checkinRepo, moduleRepo), achRepo
}

func TestOnModulePassedIdempotent(t *testing.T) {
	svc, achRepo := newAchievementStack(t)
	const userID = 21

	progress := &model.LearnerProgress{
		UserID:           userID,
		CurrentLevel:     model.Beginner,
		CompletedModules: []uint{101},
	}

	// 没有已发布模块时不会发等级成就，只有里程碑
	for i := 0; i < 2; i++ {
		if err := svc.OnModulePassed(userID, progress, model.Beginner); err != nil {
			t.Fatal(err)
		}
	}

	achievements, err := achRepo.FindByUserID(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(achievements) != 1 || achievements[0].Code != "first_module" {
		t.Fatalf("achievements = %+v, want single first_module", achievements)
	}
}

func TestOnModulePassedMilestones(t *testing.T) {
	svc, achRepo := newAchievementStack(t)
	const userID = 22

	completed := make([]uint, 5)
	for i := range completed {
		completed[i] = uint(200 + i)
	}
	progress := &model.LearnerProgress{
		UserID:           userID,
		CurrentLevel:     model.Beginner,
		CompletedModules: completed,
	}

	if err := svc.OnModulePassed(userID, progress, model.Beginner); err != nil {
		t.Fatal(err)
	}

	achievements, err := achRepo.FindByUserID(userID)
	if err != nil {
		t.Fatal(err)
	}
	codes := make(map[string]bool)
	for _, a := range achievements {
		codes[a.Code] = true
	}
	if !codes["first_module"] || !codes["modules_5"] {
		t.Errorf("codes = %v, want first_module and modules_5", codes)
	}
	if codes["modules_10"] {
		t.Error("modules_10 should not be awarded at 5 completions")
	}
}

func TestCheckinOncePerDay(t *testing.T) {
	svc, _ := newAchievementStack(t)
	const userID = 23

	stats, err := svc.Checkin(userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalDays != 1 || stats.CurrentStreak != 1 || !stats.CheckedToday {
		t.Errorf("stats = %+v, want 1 day, streak 1, checked today", stats)
	}

	if _, err := svc.Checkin(userID); !errors.Is(err, util.ErrAlreadyCheckedIn) {
		t.Errorf("second checkin err = %v, want ErrAlreadyCheckedIn", err)
	}

	again, err := svc.GetCheckinStats(userID)
	if err != nil {
		t.Fatal(err)
	}
	if again.TotalDays != 1 {
		t.Errorf("totalDays = %d, want 1 after rejected duplicate", again.TotalDays)
	}
}
