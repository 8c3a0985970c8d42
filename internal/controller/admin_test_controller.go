package controller

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminTestController 运营端的试卷与题目管理
type AdminTestController struct {
	TestRepo *repository.TestCardRepository
	Builder  *service.QuizBuilderService
}

func NewAdminTestController(testRepo *repository.TestCardRepository, builder *service.QuizBuilderService) *AdminTestController {
	return &AdminTestController{TestRepo: testRepo, Builder: builder}
}

type CreateTestCardRequest struct {
	ID              string         `json:"id"`
	SubExamID       string         `json:"subExamId" binding:"required"`
	Name            string         `json:"name" binding:"required"`
	TestType        model.TestType `json:"testType" binding:"required"`
	Order           int            `json:"order"`
	DurationMinutes int            `json:"durationMinutes"`
	PricePoints     int            `json:"pricePoints"`
	RewardPoints    int            `json:"rewardPoints"`
}

// @Summary 创建试卷
// @Tags 试卷管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTestCardRequest true "试卷信息"
// @Success 201 {object} util.Response
// @Router /api/admin/tests [post]
func (c *AdminTestController) CreateTestCard(ctx *gin.Context) {
	var req CreateTestCardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	card := &model.TestCard{
		StringIDBase:    model.StringIDBase{ID: req.ID},
		SubExamID:       req.SubExamID,
		Name:            req.Name,
		TestType:        req.TestType,
		Order:           req.Order,
		DurationMinutes: req.DurationMinutes,
		PricePoints:     req.PricePoints,
		RewardPoints:    req.RewardPoints,
		IsActive:        true,
	}
	if err := c.TestRepo.Create(card); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, card)
}

type CreateQuestionRequest struct {
	TestCardID    string           `json:"testCardId" binding:"required"`
	QuestionText  string           `json:"questionText" binding:"required"`
	OptionA       string           `json:"optionA" binding:"required"`
	OptionB       string           `json:"optionB" binding:"required"`
	OptionC       string           `json:"optionC" binding:"required"`
	OptionD       string           `json:"optionD" binding:"required"`
	CorrectOption model.Option     `json:"correctOption" binding:"required"`
	Section       string           `json:"section"`
	Topic         string           `json:"topic"`
	Difficulty    model.Difficulty `json:"difficulty"`
	PositiveMarks float64          `json:"positiveMarks"`
	NegativeMarks float64          `json:"negativeMarks"`
}

// @Summary 批量录入题目
// @Tags 试卷管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []CreateQuestionRequest true "题目列表"
// @Success 201 {object} util.Response
// @Router /api/admin/questions [post]
func (c *AdminTestController) CreateQuestions(ctx *gin.Context) {
	var reqs []CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&reqs); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if len(reqs) == 0 {
		util.BadRequest(ctx, "question list is empty")
		return
	}

	questions := make([]model.Question, 0, len(reqs))
	for _, req := range reqs {
		question := model.Question{
			TestCardID:    req.TestCardID,
			QuestionText:  req.QuestionText,
			OptionA:       req.OptionA,
			OptionB:       req.OptionB,
			OptionC:       req.OptionC,
			OptionD:       req.OptionD,
			CorrectOption: req.CorrectOption,
			Section:       req.Section,
			Topic:         req.Topic,
			Difficulty:    req.Difficulty,
			PositiveMarks: req.PositiveMarks,
			NegativeMarks: req.NegativeMarks,
		}
		if question.Section == "" {
			question.Section = "General"
		}
		if question.Difficulty == "" {
			question.Difficulty = model.Medium
		}
		if question.PositiveMarks == 0 {
			question.PositiveMarks = 1
		}
		questions = append(questions, question)
	}

	if err := c.TestRepo.CreateQuestions(questions); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"created": len(questions)})
}

type BuildWeeklyQuizRequest struct {
	SubExamID string `json:"subExamId" binding:"required"`
	Name      string `json:"name"`
}

// @Summary 生成每周测验（全体用户错得最多的题）
// @Tags 试卷管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BuildWeeklyQuizRequest true "测验信息"
// @Success 201 {object} util.Response
// @Router /api/admin/weekly-quiz [post]
func (c *AdminTestController) BuildWeeklyQuiz(ctx *gin.Context) {
	var req BuildWeeklyQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	card, err := c.Builder.BuildWeeklyQuiz(req.SubExamID, req.Name)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	util.Created(ctx, card)
}
