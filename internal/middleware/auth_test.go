package middleware

import (
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "middleware-test-secret"

func init() {
	logger.InitLogger(&config.Config{Server: config.ServerConfig{Mode: "release"}})
}

func tokenFor(t *testing.T, id uint, role model.UserRole) string {
	t.Helper()
	user := &model.User{BaseModel: model.BaseModel{ID: id}, Role: role}
	token, err := util.GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(testSecret), func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "not-a-token").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, tokenFor(t, 7, model.Student)).Code)
}

func TestRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(testSecret), Role(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusForbidden, doRequest(router, tokenFor(t, 1, model.Student)).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, tokenFor(t, 2, model.Admin)).Code)
}

func TestRequireSubscription(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE user_subscriptions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL,
		plan_id INTEGER NOT NULL,
		start_date DATETIME,
		end_date DATETIME
	)`).Error)

	now := time.Now()
	// 用户1：有效订阅；用户2：已过期；用户3：无订阅
	require.NoError(t, db.Create(&model.UserSubscription{
		UserID: 1, PlanID: 1, StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 11, 0),
	}).Error)
	require.NoError(t, db.Create(&model.UserSubscription{
		UserID: 2, PlanID: 1, StartDate: now.AddDate(-1, 0, 0), EndDate: now.AddDate(0, 0, -1),
	}).Error)

	router := gin.New()
	router.GET("/protected", Auth(testSecret), RequireSubscription(db), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doRequest(router, tokenFor(t, 1, model.Student)).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(router, tokenFor(t, 2, model.Student)).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(router, tokenFor(t, 3, model.Student)).Code)

	// 管理员不受订阅限制
	assert.Equal(t, http.StatusOK, doRequest(router, tokenFor(t, 9, model.Admin)).Code)
}

func TestRequireSubscriptionStorageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 表不存在模拟存储故障，应当是500而不是误判成未订阅
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/protected", Auth(testSecret), RequireSubscription(db), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusInternalServerError, doRequest(router, tokenFor(t, 1, model.Student)).Code)
}
