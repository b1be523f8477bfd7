package controller

import (
	"ailearn_backend/internal/service"
	"ailearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetProgress godoc
// @Summary 获取学习进度
// @Description 返回当前用户的等级、积分与已完成模块，匿名访客返回默认空进度
// @Tags 进度
// @Produce  json
// @Success 200 {object} util.Response{data=service.ProgressView} "成功"
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	view, err := c.ProgressService.GetProgress(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// GetLeaderboard godoc
// @Summary 积分排行榜
// @Description 按累计积分降序返回前 N 名学习者
// @Tags 进度
// @Produce  json
// @Param   limit query int false "返回条数，默认10，最大100"
// @Success 200 {object} util.Response{data=[]repository.LeaderboardRow} "成功"
// @Router /api/leaderboard [get]
func (c *ProgressController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	rows, err := c.ProgressService.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}
