package middleware

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/util"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Auth JWT认证中间件
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(parts[1], secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuth 可选认证 携带有效Token时注入用户信息，否则匿名放行
func TryAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				if claims, err := util.ParseJWT(parts[1], secret); err == nil {
					c.Set("user", claims)
				}
			}
		}
		c.Next()
	}
}

// Role 角色校验中间件 需在Auth之后使用
func Role(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		util.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}

// RequireSubscription 订阅校验中间件 管理员不受限制
func RequireSubscription(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if claims.Role == model.Admin {
			c.Next()
			return
		}

		var count int64
		now := time.Now()
		err := db.Model(&model.UserSubscription{}).
			Where("user_id = ? AND start_date <= ? AND end_date >= ?", claims.UserID, now, now).
			Count(&count).Error
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}

		if count == 0 {
			util.Forbidden(c, "An active subscription is required to access this content")
			c.Abort()
			return
		}

		c.Next()
	}
}
