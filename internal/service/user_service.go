package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/model"
	"fast-admin/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrUsernameExists   = errors.New("用户名已存在")
	ErrEmailExists      = errors.New("邮箱已被使用")
	ErrMobileExists     = errors.New("手机号已被使用")
	ErrUserProtected    = errors.New("超级管理员账号不允许删除")
	ErrOldPasswordWrong = errors.New("原密码不正确")
	ErrUniqueField      = errors.New("不支持的唯一性检查字段")
)

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, hard bool, callerID string) error
	BatchDelete(ctx context.Context, ids []string, hard bool, callerID string) (*dto.UserBatchDeleteResponse, error)
	BatchUpdateStatus(ctx context.Context, ids []string, status int) (int64, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	ListSimple(ctx context.Context, req *dto.UserSimpleListRequest) ([]dto.UserSimple, error)
	GetDirectSubordinates(ctx context.Context, managerID string) ([]dto.UserSimple, error)
	CheckUnique(ctx context.Context, req *dto.CheckUniqueRequest) (bool, error)
	ResetPassword(ctx context.Context, id, newPassword string) error
	ChangePassword(ctx context.Context, id string, req *dto.ChangePasswordRequest) error
}

type userService struct {
	repo    *repository.Repository
	deptSvc DeptService
	logger  *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, deptSvc DeptService, logger *zap.Logger) UserService {
	return &userService{repo: repo, deptSvc: deptSvc, logger: logger}
}

// checkUniqueness 按字段逐个预检查唯一性，命中返回对应业务错误。
// 数据库部分唯一索引是最终兜底，见 translateDuplicate。
func (s *userService) checkUniqueness(ctx context.Context, username string, email, mobile *string, excludeID *string) error {
	if username != "" {
		exists, err := s.repo.User.ExistsByField(ctx, "username", username, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameExists
		}
	}
	if email != nil && *email != "" {
		exists, err := s.repo.User.ExistsByField(ctx, "email", *email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}
	}
	if mobile != nil && *mobile != "" {
		exists, err := s.repo.User.ExistsByField(ctx, "mobile", *mobile, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return ErrMobileExists
		}
	}
	return nil
}

// translateDuplicate 并发写穿过预检查时由唯一索引拦截，
// 统一翻译为用户名冲突错误
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameExists
	}
	return err
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	if err := s.checkUniqueness(ctx, req.Username, req.Email, req.Mobile, nil); err != nil {
		return nil, err
	}

	if req.DeptID != nil {
		if _, err := s.deptSvc.GetByID(ctx, *req.DeptID); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Avatar:       req.Avatar,
		Gender:       req.Gender,
		UserType:     req.UserType,
		UserStatus:   model.UserStatusEnabled,
		IsActive:     true,
		DeptID:       req.DeptID,
		ManagerID:    req.ManagerID,
		Sort:         req.Sort,
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, translateDuplicate(err)
	}

	return toUserResponse(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	username := ""
	if req.Username != nil && *req.Username != user.Username {
		username = *req.Username
	}
	if err := s.checkUniqueness(ctx, username, req.Email, req.Mobile, &id); err != nil {
		return nil, err
	}

	if req.DeptID != nil {
		if _, err := s.deptSvc.GetByID(ctx, *req.DeptID); err != nil {
			return nil, err
		}
		user.DeptID = req.DeptID
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Mobile != nil {
		user.Mobile = req.Mobile
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.UserType != nil {
		user.UserType = *req.UserType
	}
	if req.UserStatus != nil {
		user.UserStatus = *req.UserStatus
	}
	if req.ManagerID != nil {
		user.ManagerID = req.ManagerID
	}
	if req.Sort != nil {
		user.Sort = *req.Sort
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Save(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, translateDuplicate(err)
	}

	return toUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, "", req.Email, req.Mobile, &id); err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Mobile != nil {
		user.Mobile = req.Mobile
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	user.UpdatedBy = &id

	if err := s.repo.User.Save(ctx, user); err != nil {
		s.logger.Error("更新个人信息失败", zap.String("id", id), zap.Error(err))
		return nil, translateDuplicate(err)
	}

	return toUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id string, hard bool, callerID string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if !user.CanDelete() {
		return ErrUserProtected
	}

	if hard {
		err = s.repo.User.HardDelete(ctx, id)
	} else {
		err = s.repo.User.SoftDelete(ctx, id, callerID)
	}
	if err != nil {
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
	}
	return err
}

// BatchDelete 逐个删除，超管与不存在的 ID 收入失败列表，不中断整批
func (s *userService) BatchDelete(ctx context.Context, ids []string, hard bool, callerID string) (*dto.UserBatchDeleteResponse, error) {
	resp := &dto.UserBatchDeleteResponse{FailedIDs: []string{}}
	for _, id := range ids {
		if err := s.Delete(ctx, id, hard, callerID); err != nil {
			resp.FailedIDs = append(resp.FailedIDs, id)
			continue
		}
		resp.SuccessCount++
	}
	return resp, nil
}

func (s *userService) BatchUpdateStatus(ctx context.Context, ids []string, status int) (int64, error) {
	count, err := s.repo.User.UpdateStatusBatch(ctx, ids, status)
	if err != nil {
		s.logger.Error("批量更新用户状态失败", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// List 分页查询用户。dept_id 过滤会展开为整棵部门子树
func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filter := repository.UserFilter{
		Name:       req.Name,
		Username:   req.Username,
		Mobile:     req.Mobile,
		Email:      req.Email,
		UserStatus: req.UserStatus,
		UserType:   req.UserType,
	}
	if req.DeptID != nil {
		ids, err := s.deptSvc.SubtreeIDs(ctx, *req.DeptID)
		if err != nil {
			return nil, 0, err
		}
		filter.DeptIDs = ids
	}

	offset := (req.Page - 1) * req.PageSize
	users, total, err := s.repo.User.List(ctx, filter, offset, req.PageSize)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

func (s *userService) ListSimple(ctx context.Context, req *dto.UserSimpleListRequest) ([]dto.UserSimple, error) {
	filter := repository.UserFilter{UserStatus: req.UserStatus}
	if req.DeptID != nil {
		ids, err := s.deptSvc.SubtreeIDs(ctx, *req.DeptID)
		if err != nil {
			return nil, err
		}
		filter.DeptIDs = ids
	}

	// 选择器场景不分页，上限一页最大值
	users, _, err := s.repo.User.List(ctx, filter, 0, 1000)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserSimple, 0, len(users))
	for i := range users {
		result = append(result, toUserSimple(&users[i]))
	}
	return result, nil
}

// GetDirectSubordinates 直接下属（manager_id 指向该用户），不递归
func (s *userService) GetDirectSubordinates(ctx context.Context, managerID string) ([]dto.UserSimple, error) {
	users, err := s.repo.User.ListByManager(ctx, managerID)
	if err != nil {
		s.logger.Error("查询下属失败", zap.String("manager_id", managerID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.UserSimple, 0, len(users))
	for i := range users {
		result = append(result, toUserSimple(&users[i]))
	}
	return result, nil
}

// CheckUnique 返回 true 表示该值可用
func (s *userService) CheckUnique(ctx context.Context, req *dto.CheckUniqueRequest) (bool, error) {
	switch req.Field {
	case "username", "email", "mobile":
	default:
		return false, ErrUniqueField
	}
	exists, err := s.repo.User.ExistsByField(ctx, req.Field, req.Value, req.ExcludeID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *userService) ResetPassword(ctx context.Context, id, newPassword string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.repo.User.Save(ctx, user); err != nil {
		s.logger.Error("重置密码失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, id string, req *dto.ChangePasswordRequest) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return ErrOldPasswordWrong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.repo.User.Save(ctx, user); err != nil {
		s.logger.Error("修改密码失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 响应组装 ──

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:          u.UserID,
		Username:    u.Username,
		Name:        u.Name,
		Email:       u.Email,
		Mobile:      u.Mobile,
		Avatar:      u.Avatar,
		Gender:      u.Gender,
		UserType:    u.UserType,
		UserStatus:  u.UserStatus,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		DeptID:      u.DeptID,
		ManagerID:   u.ManagerID,
		Sort:        u.Sort,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserSimple(u *model.User) dto.UserSimple {
	simple := dto.UserSimple{
		ID:       u.UserID,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Email:    u.Email,
		Mobile:   u.Mobile,
	}
	if u.Dept != nil {
		simple.DeptName = &u.Dept.Name
	}
	return simple
}
