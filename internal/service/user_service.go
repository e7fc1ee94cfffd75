package service

import (
	"context"

	"go.uber.org/zap"

	"uniclass/backend/internal/dto"
	"uniclass/backend/internal/model"
	"uniclass/backend/internal/repository"
)

// UserService 用户业务接口
type UserService interface {
	ListInstructors(ctx context.Context) ([]dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ListInstructors 可被指派为授课教师的用户
func (s *userService) ListInstructors(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListByRole(ctx, model.RoleInstructor)
	if err != nil {
		s.logger.Error("查询教师列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    u.UserID,
		Login: u.Login,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
