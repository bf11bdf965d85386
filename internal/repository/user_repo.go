package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fast-admin/backend/internal/model"
)

// UserFilter 用户列表过滤条件
// DeptIDs 由 Service 层用部门子树展开后传入
type UserFilter struct {
	Name       string
	Username   string
	Mobile     string
	Email      string
	UserStatus *int
	UserType   *int
	DeptIDs    []string
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error)
	ListByDeptIDs(ctx context.Context, deptIDs []string, onlyEnabled bool) ([]model.User, error)
	ListByManager(ctx context.Context, managerID string) ([]model.User, error)
	Save(ctx context.Context, user *model.User) error
	SoftDelete(ctx context.Context, id string, deletedBy string) error
	HardDelete(ctx context.Context, id string) error
	UpdateStatusBatch(ctx context.Context, ids []string, status int) (int64, error)
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	ExistsByField(ctx context.Context, field, value string, excludeID *string) (bool, error)
	CountByDept(ctx context.Context, deptID string) (int64, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Dept").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Username != "" {
		q = q.Where("username ILIKE ?", "%"+filter.Username+"%")
	}
	if filter.Mobile != "" {
		q = q.Where("mobile ILIKE ?", "%"+filter.Mobile+"%")
	}
	if filter.Email != "" {
		q = q.Where("email ILIKE ?", "%"+filter.Email+"%")
	}
	if filter.UserStatus != nil {
		q = q.Where("user_status = ?", *filter.UserStatus)
	}
	if filter.UserType != nil {
		q = q.Where("user_type = ?", *filter.UserType)
	}
	if len(filter.DeptIDs) > 0 {
		q = q.Where("dept_id IN ?", filter.DeptIDs)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := q.Preload("Dept").
		Order("sort DESC, created_at ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (r *userRepo) ListByDeptIDs(ctx context.Context, deptIDs []string, onlyEnabled bool) ([]model.User, error) {
	if len(deptIDs) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).Where("dept_id IN ?", deptIDs)
	if onlyEnabled {
		q = q.Where("user_status = ?", model.UserStatusEnabled)
	}
	var users []model.User
	err := q.Order("sort DESC, created_at ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) ListByManager(ctx context.Context, managerID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("sort DESC, created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) SoftDelete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *userRepo) HardDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ?", id).
		Delete(&model.User{}).Error
}

func (r *userRepo) UpdateStatusBatch(ctx context.Context, ids []string, status int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id IN ?", ids).
		Update("user_status", status)
	return res.RowsAffected, res.Error
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Update("last_login", t).Error
}

// ExistsByField 唯一性预检查。field 只允许 username/email/mobile，
// 由 Service 层保证；excludeID 用于更新场景排除自身。
func (r *userRepo) ExistsByField(ctx context.Context, field, value string, excludeID *string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where(fmt.Sprintf("%s = ?", field), value)
	if excludeID != nil {
		q = q.Where("user_id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) CountByDept(ctx context.Context, deptID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("dept_id = ?", deptID).
		Count(&count).Error
	return count, err
}
