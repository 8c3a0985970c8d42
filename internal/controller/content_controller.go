package controller

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContentController struct {
	Content *service.ContentService
	Storage *service.StorageService
}

func NewContentController(content *service.ContentService, storage *service.StorageService) *ContentController {
	return &ContentController{Content: content, Storage: storage}
}

// @Summary 考试类别列表
// @Tags 内容目录
// @Produce json
// @Param has_subject_tests query bool false "只看有科目测试的类别"
// @Success 200 {object} util.Response
// @Router /api/exams [get]
func (c *ContentController) ListExams(ctx *gin.Context) {
	onlyWithSubjectTests := ctx.Query("has_subject_tests") == "true"
	exams, err := c.Content.ListExams(ctx.Request.Context(), onlyWithSubjectTests)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// @Summary 考试类别详情（含子科目）
// @Tags 内容目录
// @Produce json
// @Param id path string true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{id} [get]
func (c *ContentController) GetExam(ctx *gin.Context) {
	exam, err := c.Content.GetExam(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary 子科目列表
// @Tags 内容目录
// @Produce json
// @Param id path string true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/sub-exams [get]
func (c *ContentController) ListSubExams(ctx *gin.Context) {
	subExams, err := c.Content.ListSubExams(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subExams)
}

// @Summary 有全真模拟的子科目列表（只带各自的全真模拟试卷）
// @Tags 内容目录
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/sub-exams/with-full-length-tests [get]
func (c *ContentController) ListSubExamsWithFullLength(ctx *gin.Context) {
	subExams, err := c.Content.ListSubExamsWithFullLength(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subExams)
}

// @Summary 子科目学习笔记
// @Tags 学习资料
// @Produce json
// @Security BearerAuth
// @Param id path string true "子科目ID"
// @Success 200 {object} util.Response
// @Router /api/sub-exams/{id}/notes [get]
func (c *ContentController) ListNotes(ctx *gin.Context) {
	notes, err := c.Content.ListNotes(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, notes)
}

// @Summary 子科目思维导图
// @Tags 学习资料
// @Produce json
// @Security BearerAuth
// @Param id path string true "子科目ID"
// @Success 200 {object} util.Response
// @Router /api/sub-exams/{id}/mind-maps [get]
func (c *ContentController) ListMindMaps(ctx *gin.Context) {
	maps, err := c.Content.ListMindMaps(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, maps)
}

// @Summary 子科目记忆卡
// @Tags 学习资料
// @Produce json
// @Security BearerAuth
// @Param id path string true "子科目ID"
// @Success 200 {object} util.Response
// @Router /api/sub-exams/{id}/flashcards [get]
func (c *ContentController) ListFlashcards(ctx *gin.Context) {
	cards, err := c.Content.ListFlashcards(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cards)
}

type CreateExamRequest struct {
	ID   string `json:"id"`
	Name string `json:"name" binding:"required"`
}

// @Summary 创建考试类别
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateExamRequest true "考试信息"
// @Success 201 {object} util.Response
// @Router /api/admin/exams [post]
func (c *ContentController) CreateExam(ctx *gin.Context) {
	var req CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam := &model.Exam{
		StringIDBase: model.StringIDBase{ID: req.ID},
		Name:         req.Name,
	}
	if err := c.Content.CreateExam(exam); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

type CreateSubExamRequest struct {
	ID     string `json:"id"`
	ExamID string `json:"examId" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

// @Summary 创建子科目
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSubExamRequest true "子科目信息"
// @Success 201 {object} util.Response
// @Router /api/admin/sub-exams [post]
func (c *ContentController) CreateSubExam(ctx *gin.Context) {
	var req CreateSubExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subExam := &model.SubExam{
		StringIDBase: model.StringIDBase{ID: req.ID},
		ExamID:       req.ExamID,
		Name:         req.Name,
	}
	if err := c.Content.CreateSubExam(subExam); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, subExam)
}

type CreateNoteRequest struct {
	SubExamID string `json:"subExamId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
}

// @Summary 创建学习笔记
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateNoteRequest true "笔记内容"
// @Success 201 {object} util.Response
// @Router /api/admin/notes [post]
func (c *ContentController) CreateNote(ctx *gin.Context) {
	var req CreateNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	note := &model.StudyNote{
		SubExamID: req.SubExamID,
		Title:     req.Title,
		Content:   req.Content,
	}
	if err := c.Content.CreateNote(note); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, note)
}

// @Summary 上传思维导图
// @Tags 内容管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param subExamId formData string true "子科目ID"
// @Param title formData string true "标题"
// @Param image formData file true "导图图片"
// @Success 201 {object} util.Response
// @Router /api/admin/mind-maps [post]
func (c *ContentController) UploadMindMap(ctx *gin.Context) {
	subExamID := ctx.PostForm("subExamId")
	title := ctx.PostForm("title")
	if subExamID == "" || title == "" {
		util.BadRequest(ctx, "subExamId and title are required")
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "image file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("mindmaps/%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")

	url, err := c.Storage.Upload(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	mindMap := &model.MindMap{
		SubExamID: subExamID,
		Title:     title,
		ImageURL:  url,
	}
	if err := c.Content.CreateMindMap(mindMap); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, mindMap)
}

type CreateFlashcardRequest struct {
	SubExamID    string `json:"subExamId" binding:"required"`
	FrontContent string `json:"frontContent" binding:"required"`
	BackContent  string `json:"backContent" binding:"required"`
}

// @Summary 创建记忆卡
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateFlashcardRequest true "记忆卡内容"
// @Success 201 {object} util.Response
// @Router /api/admin/flashcards [post]
func (c *ContentController) CreateFlashcard(ctx *gin.Context) {
	var req CreateFlashcardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	card := &model.Flashcard{
		SubExamID:    req.SubExamID,
		FrontContent: req.FrontContent,
		BackContent:  req.BackContent,
	}
	if err := c.Content.CreateFlashcard(card); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, card)
}
