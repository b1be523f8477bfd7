package repository

import (
	"ailearn_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

// FindPublishedByLevel 返回某等级下已发布模块，按 order_index 升序。
// 列表不携带 markdown 正文，详情接口单独取。
func (r *ModuleRepository) FindPublishedByLevel(level model.ModuleLevel) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.
		Omit("content").
		Where("level = ? AND published = ?", level, true).
		Order("order_index ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// FindPublishedByID 学生端详情：未发布模块视同不存在
func (r *ModuleRepository) FindPublishedByID(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.Where("id = ? AND published = ?", id, true).First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) Create(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) Update(module *model.Module) error {
	return r.DB.Save(module).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Module{}, id).Error
}

// List 管理端列表，含未发布
func (r *ModuleRepository) List(page, limit int) ([]model.Module, int64, error) {
	var modules []model.Module
	var total int64

	query := r.DB.Model(&model.Module{})
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Omit("content").
		Order("level ASC, order_index ASC").
		Offset(offset).Limit(limit).
		Find(&modules).Error

	return modules, total, err
}
