package service

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/util"
	"errors"
	"testing"
)

func mod(id uint, order int) model.Module {
	m := model.Module{OrderIndex: order, Level: model.Beginner, Published: true}
	m.ID = id
	return m
}

func TestComputeUnlocked(t *testing.T) {
	tests := []struct {
		name      string
		modules   []model.Module
		completed map[uint]bool
		want      []bool
	}{
		{
			name:      "first module always unlocked",
			modules:   []model.Module{mod(10, 1), mod(11, 2), mod(12, 3)},
			completed: map[uint]bool{},
			want:      []bool{true, false, false},
		},
		{
			name:      "second unlocks after first completed",
			modules:   []model.Module{mod(10, 1), mod(11, 2), mod(12, 3)},
			completed: map[uint]bool{10: true},
			want:      []bool{true, true, false},
		},
		{
			name:      "later completion does not skip the chain",
			modules:   []model.Module{mod(10, 1), mod(11, 2), mod(12, 3)},
			completed: map[uint]bool{11: true},
			want:      []bool{true, false, true},
		},
		{
			name:      "gap in order index stays locked",
			modules:   []model.Module{mod(10, 1), mod(12, 3)},
			completed: map[uint]bool{10: true},
			want:      []bool{true, false},
		},
		{
			name:      "anonymous only first unlocked",
			modules:   []model.Module{mod(10, 1), mod(11, 2)},
			completed: nil,
			want:      []bool{true, false},
		},
		{
			name:      "empty list",
			modules:   nil,
			completed: map[uint]bool{},
			want:      []bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeUnlocked(tt.modules, tt.completed)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("module %d unlocked = %v, want %v", tt.modules[i].ID, got[i], tt.want[i])
				}
			}
		})
	}
}

func seedModules(t *testing.T, repo *repository.ModuleRepository, count int) []model.Module {
	t.Helper()
	modules := make([]model.Module, count)
	for i := 0; i < count; i++ {
		m := model.Module{
			Level:      model.Beginner,
			OrderIndex: i + 1,
			Title:      "模块",
			Published:  true,
		}
		if err := repo.Create(&m); err != nil {
			t.Fatalf("create module: %v", err)
		}
		modules[i] = m
	}
	return modules
}

func TestGetLevelModules(t *testing.T) {
	db := newTestDB(t)
	moduleRepo := repository.NewModuleRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	svc := NewLearningService(moduleRepo, progressRepo)

	modules := seedModules(t, moduleRepo, 3)

	// 未发布模块不应出现在列表里
	hidden := model.Module{Level: model.Beginner, OrderIndex: 4, Title: "草稿"}
	if err := moduleRepo.Create(&hidden); err != nil {
		t.Fatal(err)
	}

	t.Run("anonymous sees only first unlocked", func(t *testing.T) {
		items, err := svc.GetLevelModules(model.Beginner, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 3 {
			t.Fatalf("got %d modules, want 3", len(items))
		}
		if !items[0].Unlocked || items[1].Unlocked || items[2].Unlocked {
			t.Errorf("unlocked = [%v %v %v], want [true false false]",
				items[0].Unlocked, items[1].Unlocked, items[2].Unlocked)
		}
	})

	t.Run("completion unlocks the next module", func(t *testing.T) {
		const userID = 7
		if _, _, err := progressRepo.RecordPass(userID, modules[0].ID, 95, 50); err != nil {
			t.Fatal(err)
		}

		items, err := svc.GetLevelModules(model.Beginner, userID)
		if err != nil {
			t.Fatal(err)
		}
		if !items[0].Completed {
			t.Error("first module should be completed")
		}
		if !items[1].Unlocked {
			t.Error("second module should be unlocked")
		}
		if items[2].Unlocked {
			t.Error("third module should stay locked")
		}
	})

	t.Run("invalid level rejected", func(t *testing.T) {
		if _, err := svc.GetLevelModules("wizard", 0); !errors.Is(err, util.ErrModuleNotFound) {
			t.Errorf("err = %v, want ErrModuleNotFound", err)
		}
	})
}

func TestGetModule(t *testing.T) {
	db := newTestDB(t)
	moduleRepo := repository.NewModuleRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	svc := NewLearningService(moduleRepo, progressRepo)

	modules := seedModules(t, moduleRepo, 2)

	t.Run("locked module returns ErrModuleLocked", func(t *testing.T) {
		if _, err := svc.GetModule(modules[1].ID, 0); !errors.Is(err, util.ErrModuleLocked) {
			t.Errorf("err = %v, want ErrModuleLocked", err)
		}
	})

	t.Run("unlocked module returns content", func(t *testing.T) {
		m, err := svc.GetModule(modules[0].ID, 0)
		if err != nil {
			t.Fatal(err)
		}
		if m.ID != modules[0].ID {
			t.Errorf("id = %d, want %d", m.ID, modules[0].ID)
		}
	})

	t.Run("unknown module returns ErrModuleNotFound", func(t *testing.T) {
		if _, err := svc.GetModule(9999, 0); !errors.Is(err, util.ErrModuleNotFound) {
			t.Errorf("err = %v, want ErrModuleNotFound", err)
		}
	})
}
