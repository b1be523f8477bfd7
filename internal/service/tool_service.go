package service

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/util"
	"ailearn_backend/pkg/cache"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ToolService struct {
	ToolRepo *repository.ToolRepository
	Cache    *cache.Cache
	CacheTTL time.Duration
}

func NewToolService(toolRepo *repository.ToolRepository, c *cache.Cache, ttl time.Duration) *ToolService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ToolService{ToolRepo: toolRepo, Cache: c, CacheTTL: ttl}
}

const toolCachePrefix = "tools:"

type ToolPage struct {
	List  []model.AITool `json:"list"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ListTools 目录查询，结果按筛选条件缓存
func (s *ToolService) ListTools(ctx context.Context, filter repository.ToolFilter, page, limit int) (*ToolPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	featured := ""
	if filter.Featured != nil {
		featured = fmt.Sprintf("%t", *filter.Featured)
	}
	key := fmt.Sprintf("%s%s:%s:%s:%d:%d", toolCachePrefix, filter.Category, filter.Pricing, featured, page, limit)

	data, err := s.Cache.GetOrFetch(ctx, key, s.CacheTTL, func(ctx context.Context) ([]byte, error) {
		tools, total, err := s.ToolRepo.ListPublished(filter, page, limit)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&ToolPage{List: tools, Total: total, Page: page, Limit: limit})
	})
	if err != nil {
		return nil, err
	}

	var result ToolPage
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ToolService) GetToolBySlug(slug string) (*model.AITool, error) {
	tool, err := s.ToolRepo.FindPublishedBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrToolNotFound
		}
		return nil, err
	}
	return tool, nil
}

// RecordClick 外链点击计数，目录排序不依赖它，失败不影响跳转
func (s *ToolService) RecordClick(slug string) error {
	return s.ToolRepo.IncrementClicks(slug)
}

type ToolRequest struct {
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	Category    string   `json:"category"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	WebsiteURL  string   `json:"websiteUrl"`
	LogoURL     string   `json:"logoUrl"`
	Pricing     string   `json:"pricing"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	Published   bool     `json:"published"`
}

func (s *ToolService) CreateTool(req ToolRequest) (*model.AITool, error) {
	tool := &model.AITool{
		Name:        req.Name,
		Slug:        req.Slug,
		Category:    req.Category,
		Tagline:     req.Tagline,
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
		LogoURL:     req.LogoURL,
		Pricing:     req.Pricing,
		Tags:        req.Tags,
		Featured:    req.Featured,
		Published:   req.Published,
	}
	if err := s.ToolRepo.Create(tool); err != nil {
		return nil, err
	}
	s.Cache.InvalidatePrefix(context.Background(), toolCachePrefix)
	return tool, nil
}

func (s *ToolService) UpdateTool(id uint, req ToolRequest) (*model.AITool, error) {
	tool, err := s.ToolRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrToolNotFound
		}
		return nil, err
	}

	tool.Name = req.Name
	tool.Slug = req.Slug
	tool.Category = req.Category
	tool.Tagline = req.Tagline
	tool.Description = req.Description
	tool.WebsiteURL = req.WebsiteURL
	tool.LogoURL = req.LogoURL
	tool.Pricing = req.Pricing
	tool.Tags = req.Tags
	tool.Featured = req.Featured
	tool.Published = req.Published

	if err := s.ToolRepo.Update(tool); err != nil {
		return nil, err
	}
	s.Cache.InvalidatePrefix(context.Background(), toolCachePrefix)
	return tool, nil
}

func (s *ToolService) DeleteTool(id uint) error {
	if err := s.ToolRepo.Delete(id); err != nil {
		return err
	}
	s.Cache.InvalidatePrefix(context.Background(), toolCachePrefix)
	return nil
}
