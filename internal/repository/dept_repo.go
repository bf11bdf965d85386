package repository

import (
	"context"

	"gorm.io/gorm"

	"fast-admin/backend/internal/model"
	pkgerrors "fast-admin/backend/pkg/errors"
)

// DeptRepository 部门数据访问接口
type DeptRepository interface {
	Create(ctx context.Context, dept *model.Dept) error
	GetByID(ctx context.Context, id string) (*model.Dept, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Dept, error)
	ListAll(ctx context.Context) ([]model.Dept, error)
	ListByParent(ctx context.Context, parentID *string) ([]model.Dept, error)
	ListByPathPrefix(ctx context.Context, prefix string) ([]model.Dept, error)
	Search(ctx context.Context, keyword string) ([]model.Dept, error)
	Save(ctx context.Context, dept *model.Dept) error
	SaveWithVersion(ctx context.Context, dept *model.Dept) error
	RebaseSubtree(ctx context.Context, oldPrefix, newPrefix string, levelDelta int) (int64, error)
	SoftDelete(ctx context.Context, id string, deletedBy string) error
	HardDelete(ctx context.Context, id string) error
	UpdateStatusBatch(ctx context.Context, ids []string, status bool) (int64, error)
	ChildCounts(ctx context.Context, ids []string) (map[string]int64, error)
	UserCounts(ctx context.Context, ids []string) (map[string]int64, error)
	CountChildren(ctx context.Context, id string) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountRoots(ctx context.Context) (int64, error)
	TypeCounts(ctx context.Context) (map[string]int64, error)
	MaxLevel(ctx context.Context) (int, error)
}

// deptRepo DeptRepository 的 GORM 实现
type deptRepo struct {
	db *gorm.DB
}

// NewDeptRepo 创建 DeptRepository 实例
func NewDeptRepo(db *gorm.DB) DeptRepository {
	return &deptRepo{db: db}
}

func (r *deptRepo) Create(ctx context.Context, dept *model.Dept) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *deptRepo) GetByID(ctx context.Context, id string) (*model.Dept, error) {
	var dept model.Dept
	err := r.db.WithContext(ctx).
		Where("dept_id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *deptRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Dept, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var depts []model.Dept
	err := r.db.WithContext(ctx).
		Where("dept_id IN ?", ids).
		Find(&depts).Error
	return depts, err
}

func (r *deptRepo) ListAll(ctx context.Context) ([]model.Dept, error) {
	var depts []model.Dept
	err := r.db.WithContext(ctx).
		Order("sort DESC, created_at ASC").
		Find(&depts).Error
	return depts, err
}

func (r *deptRepo) ListByParent(ctx context.Context, parentID *string) ([]model.Dept, error) {
	var depts []model.Dept
	q := r.db.WithContext(ctx)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	err := q.Order("sort DESC, created_at ASC").Find(&depts).Error
	return depts, err
}

func (r *deptRepo) ListByPathPrefix(ctx context.Context, prefix string) ([]model.Dept, error) {
	var depts []model.Dept
	err := r.db.WithContext(ctx).
		Where("path LIKE ?", prefix+"%").
		Order("level ASC, sort DESC").
		Find(&depts).Error
	return depts, err
}

func (r *deptRepo) Search(ctx context.Context, keyword string) ([]model.Dept, error) {
	var depts []model.Dept
	pattern := "%" + keyword + "%"
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR code ILIKE ?", pattern, pattern).
		Find(&depts).Error
	return depts, err
}

func (r *deptRepo) Save(ctx context.Context, dept *model.Dept) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

// SaveWithVersion 乐观锁保存：version 不匹配时返回 ErrOptimisticLock。
// 层级变更（move）必须走该路径，防止并发移动造成路径错乱。
func (r *deptRepo) SaveWithVersion(ctx context.Context, dept *model.Dept) error {
	oldVersion := dept.Version
	dept.Version = oldVersion + 1
	res := r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Where("dept_id = ? AND version = ?", dept.DeptID, oldVersion).
		Select("*").
		Omit("dept_id", "created_at", "created_by", "deleted_at", "deleted_by").
		Updates(dept)
	if res.Error != nil {
		dept.Version = oldVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		dept.Version = oldVersion
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

// RebaseSubtree 部门移动后重写整棵子树的 path/level。
// 单条 UPDATE 完成前缀替换与层级平移，保持层级不变式全树成立。
func (r *deptRepo) RebaseSubtree(ctx context.Context, oldPrefix, newPrefix string, levelDelta int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Where("path LIKE ?", oldPrefix+"%").
		Updates(map[string]interface{}{
			"path":  gorm.Expr("? || substring(path from ?)", newPrefix, len(oldPrefix)+1),
			"level": gorm.Expr("level + ?", levelDelta),
		})
	return res.RowsAffected, res.Error
}

func (r *deptRepo) SoftDelete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Where("dept_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *deptRepo) HardDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Where("dept_id = ?", id).
		Delete(&model.Dept{}).Error
}

func (r *deptRepo) UpdateStatusBatch(ctx context.Context, ids []string, status bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Where("dept_id IN ?", ids).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// countRow GROUP BY 聚合行
type countRow struct {
	Key   *string
	Count int64
}

// ChildCounts 按父部门聚合直接子部门数（一条 GROUP BY，替代逐节点计数）
func (r *deptRepo) ChildCounts(ctx context.Context, ids []string) (map[string]int64, error) {
	if len(ids) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Select("parent_id AS key, COUNT(*) AS count").
		Where("parent_id IN ?", ids).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Key != nil {
			counts[*row.Key] = row.Count
		}
	}
	return counts, nil
}

// UserCounts 按部门聚合在职用户数（一条 GROUP BY）
func (r *deptRepo) UserCounts(ctx context.Context, ids []string) (map[string]int64, error) {
	if len(ids) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("dept_id AS key, COUNT(*) AS count").
		Where("dept_id IN ?", ids).
		Group("dept_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Key != nil {
			counts[*row.Key] = row.Count
		}
	}
	return counts, nil
}

func (r *deptRepo) CountChildren(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *deptRepo) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Dept{}).Count(&count).Error
	return count, err
}

func (r *deptRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Where("status = ?", true).
		Count(&count).Error
	return count, err
}

func (r *deptRepo) CountRoots(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Where("parent_id IS NULL").
		Count(&count).Error
	return count, err
}

// TypeCounts 按部门类型聚合数量（一条 GROUP BY）
func (r *deptRepo) TypeCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		DeptType string
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Select("dept_type, COUNT(*) AS count").
		Group("dept_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.DeptType] = row.Count
	}
	return counts, nil
}

func (r *deptRepo) MaxLevel(ctx context.Context) (int, error) {
	var maxLevel *int
	err := r.db.WithContext(ctx).
		Model(&model.Dept{}).
		Select("MAX(level)").
		Scan(&maxLevel).Error
	if err != nil || maxLevel == nil {
		return 0, err
	}
	return *maxLevel, nil
}
