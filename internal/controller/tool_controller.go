package controller

import (
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/service"
	"ailearn_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ToolController struct {
	ToolService *service.ToolService
}

func NewToolController(toolService *service.ToolService) *ToolController {
	return &ToolController{ToolService: toolService}
}

// ListTools godoc
// @Summary AI工具目录
// @Description 按分类/定价/精选筛选已上架工具，分页返回
// @Tags 工具
// @Produce  json
// @Param   category query string false "分类"
// @Param   pricing query string false "定价模式" Enums(free, freemium, paid)
// @Param   featured query bool false "仅精选"
// @Param   page query int false "页码，默认1"
// @Param   limit query int false "每页条数，默认20"
// @Success 200 {object} util.Response{data=service.ToolPage} "成功"
// @Router /api/tools [get]
func (c *ToolController) ListTools(ctx *gin.Context) {
	filter := repository.ToolFilter{
		Category: ctx.Query("category"),
		Pricing:  ctx.Query("pricing"),
	}
	if v := ctx.Query("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	result, err := c.ToolService.ListTools(ctx.Request.Context(), filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetTool godoc
// @Summary 工具详情
// @Tags 工具
// @Produce  json
// @Param   slug path string true "工具 slug"
// @Success 200 {object} util.Response{data=model.AITool} "成功"
// @Failure 404 {object} util.Response "工具不存在"
// @Router /api/tools/{slug} [get]
func (c *ToolController) GetTool(ctx *gin.Context) {
	tool, err := c.ToolService.GetToolBySlug(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrToolNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, tool)
}

// RecordClick godoc
// @Summary 记录工具外链点击
// @Description 点击计数失败不阻塞前端跳转，始终返回 200
// @Tags 工具
// @Produce  json
// @Param   slug path string true "工具 slug"
// @Success 200 {object} util.Response "成功"
// @Router /api/tools/{slug}/click [post]
func (c *ToolController) RecordClick(ctx *gin.Context) {
	if err := c.ToolService.RecordClick(ctx.Param("slug")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
