package database

import (
	"ailearn_backend/internal/model"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 迁移必须在 sqlite 上也能跑通，服务层测试用内存库共享同一份建表逻辑。
// 模型标签里不允许出现方言特有的 DDL（如 MySQL 的 CURRENT_TIMESTAMP(3) 默认值）。
func TestMigrateRunsOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// 时间戳由 gorm 在插入时填充，不依赖数据库默认值
	user := model.User{Name: "测试", Email: "t@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.LastLogin.IsZero() || user.LastSeen.IsZero() {
		t.Errorf("lastLogin = %v, lastSeen = %v, want both set on insert", user.LastLogin, user.LastSeen)
	}
}
