package repository

import (
	"ailearn_backend/internal/model"

	"gorm.io/gorm"
)

type ToolRepository struct {
	DB *gorm.DB
}

func NewToolRepository(db *gorm.DB) *ToolRepository {
	return &ToolRepository{DB: db}
}

type ToolFilter struct {
	Category string
	Pricing  string
	Featured *bool
}

func (r *ToolRepository) ListPublished(filter ToolFilter, page, limit int) ([]model.AITool, int64, error) {
	var tools []model.AITool
	var total int64

	query := r.DB.Model(&model.AITool{}).Where("published = ?", true)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Pricing != "" {
		query = query.Where("pricing = ?", filter.Pricing)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Order("featured DESC, name ASC").Offset(offset).Limit(limit).Find(&tools).Error

	return tools, total, err
}

func (r *ToolRepository) FindPublishedBySlug(slug string) (*model.AITool, error) {
	var tool model.AITool
	err := r.DB.Where("slug = ? AND published = ?", slug, true).First(&tool).Error
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

func (r *ToolRepository) FindByID(id uint) (*model.AITool, error) {
	var tool model.AITool
	err := r.DB.First(&tool, id).Error
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

func (r *ToolRepository) Create(tool *model.AITool) error {
	return r.DB.Create(tool).Error
}

func (r *ToolRepository) Update(tool *model.AITool) error {
	return r.DB.Save(tool).Error
}

func (r *ToolRepository) Delete(id uint) error {
	return r.DB.Delete(&model.AITool{}, id).Error
}

// IncrementClicks 外链点击计数，原子自增
func (r *ToolRepository) IncrementClicks(slug string) error {
	return r.DB.Model(&model.AITool{}).Where("slug = ? AND published = ?", slug, true).
		UpdateColumn("clicks", gorm.Expr("clicks + 1")).Error
}
