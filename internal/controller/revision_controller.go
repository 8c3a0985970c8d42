package controller

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RevisionController struct {
	Revisions *service.RevisionService
	Builder   *service.QuizBuilderService
}

func NewRevisionController(revisions *service.RevisionService, builder *service.QuizBuilderService) *RevisionController {
	return &RevisionController{Revisions: revisions, Builder: builder}
}

// @Summary 我的复盘队列
// @Tags 复盘
// @Produce json
// @Security BearerAuth
// @Param reason query string false "按原因过滤" Enums(INCORRECT, MARKED_GUESS, MARKED_TIME, MARKED_CONCEPT)
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/revision [get]
func (c *RevisionController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	reason := model.RevisionReason(ctx.Query("reason"))
	entries, total, err := c.Revisions.List(claims.UserID, reason, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  entries,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 复盘队列概览
// @Tags 复盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/revision/summary [get]
func (c *RevisionController) Summary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.Revisions.Summary(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

type BuildChallengeRequest struct {
	SubExamID string `json:"subExamId" binding:"required"`
}

// @Summary 用复盘队列生成个人挑战卷
// @Tags 复盘
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BuildChallengeRequest true "子科目"
// @Success 201 {object} util.Response
// @Router /api/revision/challenge [post]
func (c *RevisionController) BuildChallenge(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req BuildChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	card, err := c.Builder.BuildChallenge(claims.UserID, req.SubExamID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	util.Created(ctx, card)
}
