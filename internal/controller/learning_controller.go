package controller

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/service"
	"ailearn_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

// currentUserID 可选认证路由下取用户ID，匿名访客返回 0
func currentUserID(ctx *gin.Context) uint {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		return 0
	}
	return claims.UserID
}

// GetLevelModules godoc
// @Summary 获取某等级的学习模块列表
// @Description 返回该等级下已发布模块及当前用户的解锁/完成状态，匿名访客只解锁第一个模块
// @Tags 学习
// @Produce  json
// @Param   level path string true "等级" Enums(beginner, intermediate, advanced, expert)
// @Success 200 {object} util.Response{data=[]service.ModuleListItem} "成功"
// @Failure 404 {object} util.Response "等级不存在"
// @Router /api/learning/levels/{level}/modules [get]
func (c *LearningController) GetLevelModules(ctx *gin.Context) {
	level := model.ModuleLevel(ctx.Param("level"))

	items, err := c.LearningService.GetLevelModules(level, currentUserID(ctx))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, items)
}

// GetModule godoc
// @Summary 获取模块详情
// @Description 返回模块的完整内容（含 markdown 正文），未解锁返回 403
// @Tags 学习
// @Produce  json
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.Module} "成功"
// @Failure 403 {object} util.Response "模块未解锁"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/learning/modules/{id} [get]
func (c *LearningController) GetModule(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	module, err := c.LearningService.GetModule(uint(moduleID), currentUserID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrModuleLocked):
			util.Error(ctx, 403, "请先完成前置模块")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, module)
}
