package controller

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/service"
	"ailearn_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	ModuleRepo     *repository.ModuleRepository
	QuestionRepo   *repository.QuestionRepository
	ToolService    *service.ToolService
	StorageService *service.StorageService
}

func NewAdminController(
	moduleRepo *repository.ModuleRepository,
	questionRepo *repository.QuestionRepository,
	toolService *service.ToolService,
	storageService *service.StorageService,
) *AdminController {
	return &AdminController{
		ModuleRepo:     moduleRepo,
		QuestionRepo:   questionRepo,
		ToolService:    toolService,
		StorageService: storageService,
	}
}

// ModuleRequest 管理端模块创建/更新请求
type ModuleRequest struct {
	Level           string   `json:"level" binding:"required,oneof=beginner intermediate advanced expert"`
	OrderIndex      int      `json:"orderIndex" binding:"required,min=1"`
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	Content         string   `json:"content"`
	Objectives      []string `json:"objectives"`
	DurationMinutes int      `json:"durationMinutes"`
	Prerequisites   []uint   `json:"prerequisites"`
	Published       bool     `json:"published"`
}

func (r *ModuleRequest) apply(m *model.Module) {
	m.Level = model.ModuleLevel(r.Level)
	m.OrderIndex = r.OrderIndex
	m.Title = r.Title
	m.Description = r.Description
	m.Content = r.Content
	m.Objectives = r.Objectives
	m.DurationMinutes = r.DurationMinutes
	m.Prerequisites = r.Prerequisites
	m.Published = r.Published
}

// ListModules godoc
// @Summary 管理端模块列表
// @Description 含未发布模块，按等级与顺序排序
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码，默认1"
// @Param   limit query int false "每页条数，默认20"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/modules [get]
func (c *AdminController) ListModules(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	modules, total, err := c.ModuleRepo.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: modules, Total: total, Page: page, Limit: limit})
}

// CreateModule godoc
// @Summary 创建学习模块
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ModuleRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.Module} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/modules [post]
func (c *AdminController) CreateModule(ctx *gin.Context) {
	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var module model.Module
	req.apply(&module)

	if err := c.ModuleRepo.Create(&module); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 更新学习模块
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Param   body body ModuleRequest true "模块信息"
// @Success 200 {object} util.Response{data=model.Module} "成功"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/admin/modules/{id} [put]
func (c *AdminController) UpdateModule(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ModuleRepo.FindByID(uint(moduleID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	req.apply(module)

	if err := c.ModuleRepo.Update(module); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary 删除学习模块
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/modules/{id} [delete]
func (c *AdminController) DeleteModule(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	if err := c.ModuleRepo.Delete(uint(moduleID)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// QuestionRequest 管理端题目创建/更新请求
type QuestionRequest struct {
	Content     string             `json:"content" binding:"required"`
	Options     []model.QuizOption `json:"options" binding:"required,min=2"`
	Explanation string             `json:"explanation"`
	Difficulty  string             `json:"difficulty"`
	Topic       string             `json:"topic"`
	Active      bool               `json:"active"`
}

func (r *QuestionRequest) validate() error {
	correct := 0
	for _, opt := range r.Options {
		if opt.Correct {
			correct++
		}
	}
	if correct != 1 {
		return errors.New("question must have exactly one correct option")
	}
	return nil
}

// ListQuestions godoc
// @Summary 模块题目列表
// @Description 含停用题目与正确答案标记
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response{data=[]model.QuizQuestion} "成功"
// @Router /api/admin/modules/{id}/questions [get]
func (c *AdminController) ListQuestions(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	questions, err := c.QuestionRepo.FindByModule(uint(moduleID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// CreateQuestion godoc
// @Summary 创建测验题目
// @Description 题目必须恰好有一个正确选项
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模块ID"
// @Param   body body QuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.QuizQuestion} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/admin/modules/{id}/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.ModuleRepo.FindByID(uint(moduleID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	question := &model.QuizQuestion{
		ModuleID:    uint(moduleID),
		Content:     req.Content,
		Options:     req.Options,
		Explanation: req.Explanation,
		Difficulty:  req.Difficulty,
		Topic:       req.Topic,
		Active:      req.Active,
	}

	if err := c.QuestionRepo.Create(question); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 更新测验题目
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body QuestionRequest true "题目信息"
// @Success 200 {object} util.Response{data=model.QuizQuestion} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/admin/questions/{id} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	questionID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.QuestionRepo.FindByIDs([]uint{uint(questionID)})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if len(questions) == 0 {
		util.NotFound(ctx)
		return
	}

	question := questions[0]
	question.Content = req.Content
	question.Options = req.Options
	question.Explanation = req.Explanation
	question.Difficulty = req.Difficulty
	question.Topic = req.Topic
	question.Active = req.Active

	if err := c.QuestionRepo.Update(&question); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除测验题目
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	questionID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	if err := c.QuestionRepo.Delete(uint(questionID)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// CreateTool godoc
// @Summary 收录AI工具
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ToolRequest true "工具信息"
// @Success 201 {object} util.Response{data=model.AITool} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/tools [post]
func (c *AdminController) CreateTool(ctx *gin.Context) {
	var req service.ToolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tool, err := c.ToolService.CreateTool(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, tool)
}

// UpdateTool godoc
// @Summary 更新AI工具
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "工具ID"
// @Param   body body service.ToolRequest true "工具信息"
// @Success 200 {object} util.Response{data=model.AITool} "成功"
// @Failure 404 {object} util.Response "工具不存在"
// @Router /api/admin/tools/{id} [put]
func (c *AdminController) UpdateTool(ctx *gin.Context) {
	toolID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid tool id")
		return
	}

	var req service.ToolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tool, err := c.ToolService.UpdateTool(uint(toolID), req)
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

// DeleteTool godoc
// @Summary 删除AI工具
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "工具ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/tools/{id} [delete]
func (c *AdminController) DeleteTool(ctx *gin.Context) {
	toolID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid tool id")
		return
	}

	if err := c.ToolService.DeleteTool(uint(toolID)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// UploadLogo godoc
// @Summary 上传工具Logo
// @Description 上传到配置的对象存储（本地或 MinIO），返回可访问 URL
// @Tags 管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "Logo 图片"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件缺失或过大"
// @Router /api/admin/uploads/logo [post]
func (c *AdminController) UploadLogo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	// Logo 限制 2MB
	if file.Size > 2<<20 {
		util.BadRequest(ctx, "file too large, max 2MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	objectName := service.ObjectName("logos", file.Filename)

	url, err := c.StorageService.Upload(ctx.Request.Context(), objectName, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
