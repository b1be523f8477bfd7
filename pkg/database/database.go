package database

import (
	"ailearn_backend/internal/config"
	"ailearn_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := &cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	logMode := logger.Warn
	if cfg.Server.Mode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		// 唯一键冲突要翻译成 gorm.ErrDuplicatedKey，完成记录的幂等落库依赖它
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不自动迁移，需显式传 -migrate
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
		seedTools(db)
	}

	return db, nil
}

// Migrate 建表；测试里用 sqlite 内存库也走这里
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Module{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
		&model.LearnerProgress{},
		&model.ModuleCompletion{},
		&model.Achievement{},
		&model.Checkin{},
		&model.AITool{},
	)
}

// 默认的工具目录条目，首次启动为空库时插入
func seedTools(db *gorm.DB) {
	var count int64
	db.Model(&model.AITool{}).Count(&count)
	if count != 0 {
		return
	}

	defaults := []model.AITool{
		{Name: "ChatGPT", Slug: "chatgpt", Category: "chatbot", Tagline: "对话式 AI 助手", WebsiteURL: "https://chat.openai.com", Pricing: "freemium", Tags: []string{"writing", "coding"}, Featured: true, Published: true},
		{Name: "Midjourney", Slug: "midjourney", Category: "image", Tagline: "文生图工具", WebsiteURL: "https://midjourney.com", Pricing: "paid", Tags: []string{"image", "art"}, Published: true},
		{Name: "Perplexity", Slug: "perplexity", Category: "search", Tagline: "AI 搜索引擎", WebsiteURL: "https://perplexity.ai", Pricing: "freemium", Tags: []string{"search", "research"}, Published: true},
	}
	for _, t := range defaults {
		db.Create(&t)
	}
}
