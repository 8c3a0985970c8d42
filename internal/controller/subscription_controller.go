package controller

import (
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	Service *service.SubscriptionService
}

func NewSubscriptionController(svc *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{Service: svc}
}

// @Summary 订阅套餐列表
// @Tags 订阅
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/plans [get]
func (c *SubscriptionController) ListPlans(ctx *gin.Context) {
	plans, err := c.Service.ListPlans()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, plans)
}

type SubscribeRequest struct {
	PlanID uint `json:"planId" binding:"required"`
}

// @Summary 订阅套餐
// @Tags 订阅
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubscribeRequest true "套餐"
// @Success 201 {object} util.Response
// @Router /api/subscriptions [post]
func (c *SubscriptionController) Subscribe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.Service.Subscribe(claims.UserID, req.PlanID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, sub)
}

// @Summary 我的当前订阅
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/subscriptions/current [get]
func (c *SubscriptionController) Current(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.Service.Current(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"subscription": sub, "active": sub != nil})
}
