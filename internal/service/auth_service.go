package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/model"
	"fast-admin/backend/internal/repository"
	"fast-admin/backend/pkg/jwt"
	"fast-admin/backend/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrBadCredentials = errors.New("用户名或密码错误")
	ErrUserDisabled   = errors.New("账号已被禁用")
	ErrBadRefresh     = errors.New("refresh token 无效")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	Logout(ctx context.Context, accessToken string) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	cache  *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例。cache 可为 nil，此时注销不生效黑名单
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, cache *redis.Client, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, cache: cache, logger: logger}
}

// Login 账号密码登录。用户不存在与密码错误返回同一错误，不泄露账号存在性
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		s.logger.Error("查询用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrBadCredentials
	}
	if user.UserStatus != model.UserStatusEnabled || !user.IsActive {
		return nil, ErrUserDisabled
	}

	deptID := ""
	if user.DeptID != nil {
		deptID = *user.DeptID
	}
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, deptID, user.IsSuperuser)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, deptID, user.IsSuperuser)
	if err != nil {
		return nil, err
	}

	if err := s.repo.User.UpdateLastLogin(ctx, user.UserID, time.Now()); err != nil {
		s.logger.Warn("更新登录时间失败", zap.String("user_id", user.UserID), zap.Error(err))
	}

	s.logger.Info("用户登录", zap.String("user_id", user.UserID), zap.String("username", user.Username))

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *toUserResponse(user),
	}, nil
}

// Refresh 用 refresh token 换取新的 token 对。旧 refresh token 立即拉黑
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrBadRefresh
	}
	if claims.TokenType != "refresh" {
		return nil, ErrBadRefresh
	}
	if s.cache != nil {
		blacklisted, err := s.cache.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("查询黑名单失败", zap.Error(err))
		} else if blacklisted {
			return nil, ErrBadRefresh
		}
	}

	// 用户状态实时校验，被禁用的账号不能续签
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadRefresh
		}
		return nil, err
	}
	if user.UserStatus != model.UserStatusEnabled || !user.IsActive {
		return nil, ErrUserDisabled
	}

	deptID := ""
	if user.DeptID != nil {
		deptID = *user.DeptID
	}
	newAccess, err := s.jwtMgr.GenerateAccessToken(user.UserID, deptID, user.IsSuperuser)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwtMgr.GenerateRefreshToken(user.UserID, deptID, user.IsSuperuser)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && claims.ExpiresAt != nil {
		if err := s.cache.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("拉黑旧 refresh token 失败", zap.Error(err))
		}
	}

	return &dto.RefreshResponse{AccessToken: newAccess, RefreshToken: newRefresh}, nil
}

// Logout 注销。access token 的 jti 进黑名单直至自然过期
func (s *authService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtMgr.ParseToken(accessToken)
	if err != nil {
		return nil // 无效或已过期的 token 无需处理
	}
	if s.cache != nil && claims.ExpiresAt != nil {
		if err := s.cache.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("注销拉黑 token 失败", zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}
