package service

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/pkg/cache"
	"context"
	"testing"
	"time"
)

func TestGetProgressAnonymous(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewProgressRepository(db)
	svc := NewProgressService(repo, cache.New(nil), time.Minute)

	view, err := svc.GetProgress(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if view.CurrentLevel != model.Beginner || view.TotalPoints != 0 {
		t.Errorf("got level %s, points %d, want beginner, 0", view.CurrentLevel, view.TotalPoints)
	}
	if view.CompletedModules == nil || len(view.CompletedModules) != 0 {
		t.Errorf("completedModules = %v, want empty non-nil", view.CompletedModules)
	}

	// 匿名读取不落库
	var count int64
	db.Model(&model.LearnerProgress{}).Count(&count)
	if count != 0 {
		t.Errorf("progress rows = %d, want 0", count)
	}
}

func TestGetProgressCreatesDefaultOnFirstRead(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewProgressRepository(db)
	svc := NewProgressService(repo, cache.New(nil), time.Minute)
	const userID = 11

	view, err := svc.GetProgress(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if view.CurrentLevel != model.Beginner || view.TotalPoints != 0 || len(view.CompletedModules) != 0 {
		t.Errorf("unexpected default view: %+v", view)
	}

	var count int64
	db.Model(&model.LearnerProgress{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Errorf("progress rows = %d, want 1", count)
	}

	// 再读不重复建
	if _, err := svc.GetProgress(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	db.Model(&model.LearnerProgress{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Errorf("progress rows after second read = %d, want 1", count)
	}
}

func TestGetProgressCacheInvalidation(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewProgressRepository(db)
	svc := NewProgressService(repo, cache.New(nil), time.Hour)
	const userID = 12

	if _, err := svc.GetProgress(context.Background(), userID); err != nil {
		t.Fatal(err)
	}

	// 写路径落一次通过
	if _, _, err := repo.RecordPass(userID, 77, 95, 50); err != nil {
		t.Fatal(err)
	}

	// 缓存窗口内还是旧值
	stale, err := svc.GetProgress(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if stale.TotalPoints != 0 {
		t.Errorf("stale totalPoints = %d, want 0 before invalidation", stale.TotalPoints)
	}

	svc.InvalidateCache(userID)

	fresh, err := svc.GetProgress(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.TotalPoints != 50 {
		t.Errorf("totalPoints = %d, want 50 after invalidation", fresh.TotalPoints)
	}
	if len(fresh.CompletedModules) != 1 || fresh.CompletedModules[0] != 77 {
		t.Errorf("completedModules = %v, want [77]", fresh.CompletedModules)
	}
	if len(fresh.Completions) != 1 || fresh.Completions[0].Score != 95 {
		t.Errorf("completions = %+v, want one with score 95", fresh.Completions)
	}
}

func TestGetLeaderboard(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	repo := repository.NewProgressRepository(db)
	svc := NewProgressService(repo, cache.New(nil), time.Minute)

	names := []string{"甲", "乙", "丙"}
	points := []int{30, 90, 60}
	for i := range names {
		u := model.User{Name: names[i], Email: names[i] + "@example.com", Password: "x"}
		if err := userRepo.Create(&u); err != nil {
			t.Fatal(err)
		}
		p, err := repo.GetOrCreate(u.ID)
		if err != nil {
			t.Fatal(err)
		}
		p.TotalPoints = points[i]
		if err := repo.Save(p); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := svc.GetLeaderboard(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Name != "乙" || rows[0].TotalPoints != 90 {
		t.Errorf("top row = %+v, want 乙 with 90", rows[0])
	}
	if rows[1].Name != "丙" {
		t.Errorf("second row = %+v, want 丙", rows[1])
	}
}
