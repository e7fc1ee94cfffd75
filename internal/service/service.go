package service

import (
	"go.uber.org/zap"

	"uniclass/backend/config"
	"uniclass/backend/internal/repository"
	"uniclass/backend/pkg/jwt"
	"uniclass/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth   AuthService
	User   UserService
	Course CourseService
	Class  ClassService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：Redis 不可用时登出不写黑名单
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:   NewAuthService(repo, jwtMgr, rdb, logger),
		User:   NewUserService(repo, logger),
		Course: NewCourseService(repo, logger),
		Class:  NewClassService(repo, cfg.Feature.ScheduleCheckEnabled, logger),
	}
}
