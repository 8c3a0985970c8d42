package controller

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	Unlocks     *service.UnlockService
	Submissions *service.SubmissionService
}

func NewTestController(unlocks *service.UnlockService, submissions *service.SubmissionService) *TestController {
	return &TestController{Unlocks: unlocks, Submissions: submissions}
}

// respondDomainError 把业务错误翻译成HTTP状态码
func respondDomainError(ctx *gin.Context, err error) {
	var insufficientErr *util.InsufficientPointsError
	switch {
	case errors.Is(err, util.ErrTestNotFound),
		errors.Is(err, util.ErrSubmissionNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrTestLocked),
		errors.Is(err, util.ErrTestNotPurchased),
		errors.Is(err, util.ErrQuizAlreadyAttempted):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrTestAlreadySubmitted),
		errors.Is(err, util.ErrAlreadyPurchased):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrNotFullLengthTest),
		errors.Is(err, util.ErrSubmissionNotFinal),
		errors.Is(err, util.ErrEmptyRevisionLog):
		util.BadRequest(ctx, err.Error())
	case errors.As(err, &insufficientErr):
		ctx.JSON(http.StatusPaymentRequired, util.Response{
			Code:    http.StatusPaymentRequired,
			Message: insufficientErr.Error(),
			Data: gin.H{
				"required":  insufficientErr.Required,
				"available": insufficientErr.Available,
			},
		})
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 子科目试卷列表（带解锁状态）
// @Tags 测试
// @Produce json
// @Security BearerAuth
// @Param id path string true "子科目ID"
// @Param type query string false "试卷类型" Enums(SUBJECT, FULL, CHALLENGE, QUIZ)
// @Success 200 {object} util.Response
// @Router /api/sub-exams/{id}/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	testType := model.TestType(ctx.Query("type"))
	cards, err := c.Unlocks.ListWithStatus(claims.UserID, ctx.Param("id"), testType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cards)
}

// @Summary 试卷详情（带当前用户的解锁状态）
// @Tags 测试
// @Produce json
// @Security BearerAuth
// @Param id path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	card, err := c.Unlocks.GetWithStatus(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	util.Success(ctx, card)
}

// @Summary 查询试卷解锁状态
// @Tags 测试
// @Produce json
// @Security BearerAuth
// @Param id path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/tests/{id}/unlock-status [get]
func (c *TestController) CheckUnlockStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.Unlocks.CheckStatus(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// @Summary 用积分购买全真模拟
// @Tags 测试
// @Produce json
// @Security BearerAuth
// @Param id path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/tests/{id}/purchase [post]
func (c *TestController) Purchase(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Unlocks.Purchase(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 开始考试
// @Tags 测试
// @Produce json
// @Security BearerAuth
// @Param id path string true "试卷ID"
// @Success 201 {object} util.Response
// @Router /api/tests/{id}/start [post]
func (c *TestController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Submissions.StartTest(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

type SubmitRequest struct {
	Answers []service.SubmittedAnswer `json:"answers"`
}

// @Summary 交卷判分
// @Tags 测试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "答卷ID"
// @Param body body SubmitRequest true "作答内容"
// @Success 200 {object} util.Response
// @Router /api/submissions/{id}/submit [post]
func (c *TestController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	submissionID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Submissions.SubmitTest(claims.UserID, uint(submissionID), req.Answers)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type MarkReasonsRequest struct {
	Marks []service.MarkedQuestion `json:"marks" binding:"required"`
}

// @Summary 标记没把握的题目进复盘队列
// @Tags 测试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "答卷ID"
// @Param body body MarkReasonsRequest true "标记列表"
// @Success 200 {object} util.Response
// @Router /api/submissions/{id}/mark-reasons [post]
func (c *TestController) SaveMarkReasons(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	submissionID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	var req MarkReasonsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	saved, err := c.Submissions.SaveMarkReasons(claims.UserID, uint(submissionID), req.Marks)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"saved": saved})
}

// @Summary 我的历史成绩
// @Tags 测试
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/my-results [get]
func (c *TestController) MyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	submissions, total, err := c.Submissions.ListResults(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  submissions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 单次答卷详情（逐题作答与板块表现）
// @Tags 测试
// @Produce json
// @Security BearerAuth
// @Param id path int true "答卷ID"
// @Success 200 {object} util.Response
// @Router /api/submissions/{id} [get]
func (c *TestController) GetResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	submissionID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	submission, sections, err := c.Submissions.GetResult(claims.UserID, uint(submissionID))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"submission": submission,
		"sections":   sections,
	})
}
