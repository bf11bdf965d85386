package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fast-admin/backend/internal/model"
)

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	Create(ctx context.Context, ann *model.Announcement) error
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	List(ctx context.Context, status, keyword string, offset, limit int) ([]model.Announcement, int64, error)
	ListVisible(ctx context.Context, aud model.Audience, unreadOnly bool, now time.Time, offset, limit int) ([]model.Announcement, int64, error)
	CountVisibleUnread(ctx context.Context, aud model.Audience, now time.Time) (int64, error)
	Save(ctx context.Context, ann *model.Announcement) error
	SoftDelete(ctx context.Context, id string, deletedBy string) error
	MarkRead(ctx context.Context, announcementID, userID string, readAt time.Time) (bool, error)
	ReadIDs(ctx context.Context, userID string, announcementIDs []string) (map[string]bool, error)
	ListReads(ctx context.Context, announcementID string, limit int) ([]model.AnnouncementRead, error)
}

// announcementRepo AnnouncementRepository 的 GORM 实现
type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实例
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, ann *model.Announcement) error {
	return r.db.WithContext(ctx).Create(ann).Error
}

func (r *announcementRepo) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	var ann model.Announcement
	err := r.db.WithContext(ctx).
		Where("announcement_id = ?", id).
		First(&ann).Error
	if err != nil {
		return nil, err
	}
	return &ann, nil
}

func (r *announcementRepo) List(ctx context.Context, status, keyword string, offset, limit int) ([]model.Announcement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Announcement{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if keyword != "" {
		pattern := "%" + keyword + "%"
		q = q.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var anns []model.Announcement
	err := q.Order("is_top DESC, priority DESC, publish_time DESC NULLS LAST").
		Offset(offset).Limit(limit).
		Find(&anns).Error
	return anns, total, err
}

// jsonElem 将单个 id 编码为 JSONB 包含查询的右操作数 ["id"]
func jsonElem(id string) string {
	data, _ := json.Marshal([]string{id})
	return string(data)
}

// audienceWhere 按受众构造接收范围过滤条件：
// all 全员可见，dept/role 按 JSONB 包含匹配，user 精确匹配调用者
func audienceWhere(q *gorm.DB, aud model.Audience) *gorm.DB {
	conds := []string{"target_type = ?"}
	args := []interface{}{model.TargetAll}

	for _, deptID := range aud.DeptIDs {
		conds = append(conds, "(target_type = ? AND target_ids @> ?)")
		args = append(args, model.TargetDept, jsonElem(deptID))
	}
	for _, roleID := range aud.RoleIDs {
		conds = append(conds, "(target_type = ? AND target_ids @> ?)")
		args = append(args, model.TargetRole, jsonElem(roleID))
	}
	conds = append(conds, "(target_type = ? AND target_ids @> ?)")
	args = append(args, model.TargetUser, jsonElem(aud.UserID))

	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// visibleQuery 已发布且未过期、且接收范围覆盖受众的公告
func (r *announcementRepo) visibleQuery(ctx context.Context, aud model.Audience, now time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("status = ?", model.AnnouncementStatusPublished).
		Where("expire_time IS NULL OR expire_time > ?", now)
	return audienceWhere(q, aud)
}

func (r *announcementRepo) ListVisible(ctx context.Context, aud model.Audience, unreadOnly bool, now time.Time, offset, limit int) ([]model.Announcement, int64, error) {
	q := r.visibleQuery(ctx, aud, now)
	if unreadOnly {
		q = q.Where("announcement_id NOT IN (?)",
			r.db.Model(&model.AnnouncementRead{}).
				Select("announcement_id").
				Where("user_id = ?", aud.UserID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var anns []model.Announcement
	err := q.Order("is_top DESC, priority DESC, publish_time DESC").
		Offset(offset).Limit(limit).
		Find(&anns).Error
	return anns, total, err
}

func (r *announcementRepo) CountVisibleUnread(ctx context.Context, aud model.Audience, now time.Time) (int64, error) {
	var count int64
	err := r.visibleQuery(ctx, aud, now).
		Where("announcement_id NOT IN (?)",
			r.db.Model(&model.AnnouncementRead{}).
				Select("announcement_id").
				Where("user_id = ?", aud.UserID)).
		Count(&count).Error
	return count, err
}

func (r *announcementRepo) Save(ctx context.Context, ann *model.Announcement) error {
	return r.db.WithContext(ctx).Save(ann).Error
}

func (r *announcementRepo) SoftDelete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("announcement_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// MarkRead 首次阅读在一个事务内写入阅读记录并自增阅读计数。
// 唯一索引兜底并发下的重复插入；已读时返回 (false, nil)。
func (r *announcementRepo) MarkRead(ctx context.Context, announcementID, userID string, readAt time.Time) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		read := model.AnnouncementRead{
			AnnouncementID: announcementID,
			UserID:         userID,
			ReadAt:         &readAt,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "announcement_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&read)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // 已读，幂等返回
		}
		created = true
		return tx.Model(&model.Announcement{}).
			Where("announcement_id = ?", announcementID).
			Update("read_count", gorm.Expr("read_count + 1")).Error
	})
	return created, err
}

func (r *announcementRepo) ReadIDs(ctx context.Context, userID string, announcementIDs []string) (map[string]bool, error) {
	if len(announcementIDs) == 0 {
		return map[string]bool{}, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.AnnouncementRead{}).
		Where("user_id = ? AND announcement_id IN ?", userID, announcementIDs).
		Pluck("announcement_id", &ids).Error
	if err != nil {
		return nil, err
	}
	read := make(map[string]bool, len(ids))
	for _, id := range ids {
		read[id] = true
	}
	return read, nil
}

func (r *announcementRepo) ListReads(ctx context.Context, announcementID string, limit int) ([]model.AnnouncementRead, error) {
	var reads []model.AnnouncementRead
	err := r.db.WithContext(ctx).
		Where("announcement_id = ?", announcementID).
		Order("read_at DESC").
		Limit(limit).
		Find(&reads).Error
	return reads, err
}
