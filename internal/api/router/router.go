package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"uniclass/backend/config"
	"uniclass/backend/internal/api/handler"
	"uniclass/backend/internal/api/middleware"
	"uniclass/backend/internal/model"
	"uniclass/backend/pkg/jwt"
	"uniclass/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// db 仅用于健康检查，可为 nil；rdb 为 nil 时黑名单与限流降级
func Setup(cfg *config.Config, h *handler.Handler, db *gorm.DB, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, status)
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, time.Minute), h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			authorized.GET("/instructors", h.Instructor.ListInstructors)

			// 课程模块：仅管理员可写
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.ListCourses)
				courses.GET("/:id", h.Course.GetCourse)
				courses.POST("", middleware.RoleAuth(model.RoleAdmin), h.Course.CreateCourse)
				courses.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Course.UpdateCourse)
				courses.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Course.DeleteCourse)
			}

			// 班级模块：管理员或教师可写（教师仅限本人，Service 层鉴权）
			writers := middleware.RoleAuth(model.RoleAdmin, model.RoleInstructor)
			classes := authorized.Group("/classes")
			{
				classes.GET("", h.Class.ListClasses)
				classes.GET("/:id", h.Class.GetClass)
				classes.POST("", writers, h.Class.CreateClass)
				classes.POST("/validate", writers, h.Class.ValidateClass)
				classes.PUT("/:id", writers, h.Class.UpdateClass)
				classes.DELETE("/:id", writers, h.Class.DeleteClass)
			}
		}
	}

	return r, nil
}
