package controller

import (
	"ailearn_backend/internal/service"
	"ailearn_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// StartQuiz godoc
// @Summary 开始模块测验
// @Description 从模块题库随机抽题下发，返回题集句柄供提交使用，题目不携带正确答案
// @Tags 测验
// @Produce  json
// @Param   id path int true "模块ID"
// @Param   count query int false "抽题数，默认10"
// @Success 200 {object} util.Response{data=service.QuizStart} "成功"
// @Failure 404 {object} util.Response "模块不存在或无可用题目"
// @Router /api/learning/modules/{id}/quiz [get]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	count, _ := strconv.Atoi(ctx.DefaultQuery("count", "0"))

	start, err := c.QuizService.StartQuiz(currentUserID(ctx), uint(moduleID), count)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNoActiveQuestions):
			util.Error(ctx, 404, "该模块暂无测验题目")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, start)
}

// SubmitQuiz godoc
// @Summary 提交模块测验
// @Description 评分并在达到通过线时记录完成、发放积分，首次通过才加分
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Param   body body service.QuizSubmission true "题集句柄与答案列表"
// @Success 200 {object} util.Response{data=service.QuizResult} "成功"
// @Failure 400 {object} util.Response "题集句柄无效或提交包含无效题目"
// @Failure 401 {object} util.Response "未授权"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/learning/modules/{id}/quiz [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	var submission service.QuizSubmission
	if err := ctx.ShouldBindJSON(&submission); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(claims.UserID, uint(moduleID), submission)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNoActiveQuestions):
			util.Error(ctx, 404, "该模块暂无测验题目")
		case errors.Is(err, util.ErrInvalidSubmission):
			util.BadRequest(ctx, "题集句柄无效或提交包含无效、重复的题目")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
