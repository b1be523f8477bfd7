package controller

import (
	"ailearn_backend/internal/service"
	"ailearn_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// GetAchievements godoc
// @Summary 获取已获得的成就
// @Tags 成就
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Achievement} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/achievements [get]
func (c *AchievementController) GetAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.AchievementService.GetUserAchievements(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}

// Checkin godoc
// @Summary 每日签到
// @Description 一天只能签到一次，重复签到返回 409
// @Tags 成就
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.CheckinStats} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 409 {object} util.Response "今日已签到"
// @Router /api/checkin [post]
func (c *AchievementController) Checkin(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.AchievementService.Checkin(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAlreadyCheckedIn) {
			util.Conflict(ctx, "今日已签到")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, stats)
}

// GetCheckinStats godoc
// @Summary 获取签到统计
// @Description 返回总签到天数、当前连续天数与今日是否已签到
// @Tags 成就
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.CheckinStats} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/checkin/stats [get]
func (c *AchievementController) GetCheckinStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.AchievementService.GetCheckinStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
