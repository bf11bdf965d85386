package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fast-admin/backend/internal/model"
)

// MessageRepository 站内消息数据访问接口
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	CreateBatch(ctx context.Context, msgs []*model.Message) error
	GetByID(ctx context.Context, id, recipientID string) (*model.Message, error)
	List(ctx context.Context, recipientID, msgType, status string, offset, limit int) ([]model.Message, int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	CountUnreadByType(ctx context.Context, recipientID string) (map[string]int64, error)
	Save(ctx context.Context, msg *model.Message) error
	MarkAllRead(ctx context.Context, recipientID, msgType string, readAt time.Time) (int64, error)
	SoftDelete(ctx context.Context, id, recipientID string) error
	DeleteAllRead(ctx context.Context, recipientID string) (int64, error)
}

// messageRepo MessageRepository 的 GORM 实现
type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepo 创建 MessageRepository 实例
func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepo) CreateBatch(ctx context.Context, msgs []*model.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(msgs).Error
}

func (r *messageRepo) GetByID(ctx context.Context, id, recipientID string) (*model.Message, error) {
	var msg model.Message
	err := r.db.WithContext(ctx).
		Where("message_id = ? AND recipient_id = ?", id, recipientID).
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepo) List(ctx context.Context, recipientID, msgType, status string, offset, limit int) ([]model.Message, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("recipient_id = ?", recipientID)
	if msgType != "" {
		q = q.Where("msg_type = ?", msgType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []model.Message
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&msgs).Error
	return msgs, total, err
}

func (r *messageRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("recipient_id = ? AND status = ?", recipientID, model.MsgStatusUnread).
		Count(&count).Error
	return count, err
}

func (r *messageRepo) CountUnreadByType(ctx context.Context, recipientID string) (map[string]int64, error) {
	var rows []struct {
		MsgType string
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Select("msg_type, COUNT(*) AS count").
		Where("recipient_id = ? AND status = ?", recipientID, model.MsgStatusUnread).
		Group("msg_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.MsgType] = row.Count
	}
	return counts, nil
}

func (r *messageRepo) Save(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

// MarkAllRead 集合式更新，不逐行循环
func (r *messageRepo) MarkAllRead(ctx context.Context, recipientID, msgType string, readAt time.Time) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("recipient_id = ? AND status = ?", recipientID, model.MsgStatusUnread)
	if msgType != "" {
		q = q.Where("msg_type = ?", msgType)
	}
	res := q.Updates(map[string]interface{}{
		"status":  model.MsgStatusRead,
		"read_at": readAt,
	})
	return res.RowsAffected, res.Error
}

func (r *messageRepo) SoftDelete(ctx context.Context, id, recipientID string) error {
	return r.db.WithContext(ctx).
		Where("message_id = ? AND recipient_id = ?", id, recipientID).
		Delete(&model.Message{}).Error
}

// DeleteAllRead 集合式软删除所有已读消息
func (r *messageRepo) DeleteAllRead(ctx context.Context, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, model.MsgStatusRead).
		Delete(&model.Message{})
	return res.RowsAffected, res.Error
}
