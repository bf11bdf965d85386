package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/model"
	"fast-admin/backend/internal/repository"
	"fast-admin/backend/pkg/redis"
)

// ── 消息模块业务错误 ──

var ErrMessageNotFound = errors.New("消息不存在")

// MessageService 站内消息业务接口
//
// 所有读写都限定在接收者自己名下，消息 ID 对即可见性不构成授权。
type MessageService interface {
	List(ctx context.Context, recipientID string, req *dto.MessageListRequest) ([]dto.MessageResponse, int64, error)
	GetByID(ctx context.Context, id, recipientID string) (*dto.MessageResponse, error)
	UnreadCount(ctx context.Context, recipientID string) (*dto.UnreadCountResponse, error)
	MarkAsRead(ctx context.Context, id, recipientID string) (*dto.MessageResponse, error)
	MarkAllAsRead(ctx context.Context, recipientID, msgType string) (int64, error)
	Delete(ctx context.Context, id, recipientID string) error
	DeleteAllRead(ctx context.Context, recipientID string) (int64, error)
	Create(ctx context.Context, req *dto.CreateMessageRequest, senderID *string) (*dto.MessageResponse, error)
	BatchCreate(ctx context.Context, recipientIDs []string, title, content, msgType, linkType, linkID string, senderID *string) (int, error)
}

type messageService struct {
	repo   *repository.Repository
	cache  *redis.Client
	logger *zap.Logger
}

// NewMessageService 创建 MessageService 实例。cache 可为 nil（例如测试环境），
// 此时未读数直接查库。
func NewMessageService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) MessageService {
	return &messageService{repo: repo, cache: cache, logger: logger}
}

func (s *messageService) List(ctx context.Context, recipientID string, req *dto.MessageListRequest) ([]dto.MessageResponse, int64, error) {
	offset := (req.Page - 1) * req.PageSize
	msgs, total, err := s.repo.Message.List(ctx, recipientID, req.MsgType, req.Status, offset, req.PageSize)
	if err != nil {
		s.logger.Error("查询消息列表失败", zap.String("recipient_id", recipientID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		result = append(result, *toMessageResponse(&msgs[i]))
	}
	return result, total, nil
}

func (s *messageService) GetByID(ctx context.Context, id, recipientID string) (*dto.MessageResponse, error) {
	msg, err := s.getMessage(ctx, id, recipientID)
	if err != nil {
		return nil, err
	}
	return toMessageResponse(msg), nil
}

func (s *messageService) getMessage(ctx context.Context, id, recipientID string) (*model.Message, error) {
	msg, err := s.repo.Message.GetByID(ctx, id, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		s.logger.Error("查询消息失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return msg, nil
}

// UnreadCount 未读消息总数与分类型计数。
// 总数走缓存，分类型计数每次查库（一条 GROUP BY，代价可忽略）
func (s *messageService) UnreadCount(ctx context.Context, recipientID string) (*dto.UnreadCountResponse, error) {
	var total int64
	cached := false
	if s.cache != nil {
		total, cached = s.cache.GetUnreadCount(ctx, recipientID)
	}
	if !cached {
		var err error
		total, err = s.repo.Message.CountUnread(ctx, recipientID)
		if err != nil {
			s.logger.Error("统计未读消息失败", zap.String("recipient_id", recipientID), zap.Error(err))
			return nil, err
		}
		if s.cache != nil {
			s.cache.SetUnreadCount(ctx, recipientID, total)
		}
	}

	byType, err := s.repo.Message.CountUnreadByType(ctx, recipientID)
	if err != nil {
		s.logger.Error("统计分类未读消息失败", zap.String("recipient_id", recipientID), zap.Error(err))
		return nil, err
	}

	return &dto.UnreadCountResponse{Total: total, ByType: byType}, nil
}

func (s *messageService) invalidateUnread(ctx context.Context, recipientID string) {
	if s.cache != nil {
		s.cache.InvalidateUnreadCount(ctx, recipientID)
	}
}

// MarkAsRead 标记消息已读。幂等：已读消息原样返回，不重写 read_at
func (s *messageService) MarkAsRead(ctx context.Context, id, recipientID string) (*dto.MessageResponse, error) {
	msg, err := s.getMessage(ctx, id, recipientID)
	if err != nil {
		return nil, err
	}

	if msg.Status == model.MsgStatusUnread {
		now := time.Now()
		msg.Status = model.MsgStatusRead
		msg.ReadAt = &now
		if err := s.repo.Message.Save(ctx, msg); err != nil {
			s.logger.Error("标记已读失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		s.invalidateUnread(ctx, recipientID)
	}

	return toMessageResponse(msg), nil
}

func (s *messageService) MarkAllAsRead(ctx context.Context, recipientID, msgType string) (int64, error) {
	count, err := s.repo.Message.MarkAllRead(ctx, recipientID, msgType, time.Now())
	if err != nil {
		s.logger.Error("全部标记已读失败", zap.String("recipient_id", recipientID), zap.Error(err))
		return 0, err
	}
	if count > 0 {
		s.invalidateUnread(ctx, recipientID)
	}
	return count, nil
}

func (s *messageService) Delete(ctx context.Context, id, recipientID string) error {
	msg, err := s.getMessage(ctx, id, recipientID)
	if err != nil {
		return err
	}
	if err := s.repo.Message.SoftDelete(ctx, id, recipientID); err != nil {
		s.logger.Error("删除消息失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if msg.Status == model.MsgStatusUnread {
		s.invalidateUnread(ctx, recipientID)
	}
	return nil
}

func (s *messageService) DeleteAllRead(ctx context.Context, recipientID string) (int64, error) {
	count, err := s.repo.Message.DeleteAllRead(ctx, recipientID)
	if err != nil {
		s.logger.Error("清空已读消息失败", zap.String("recipient_id", recipientID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (s *messageService) Create(ctx context.Context, req *dto.CreateMessageRequest, senderID *string) (*dto.MessageResponse, error) {
	msgType := req.MsgType
	if msgType == "" {
		msgType = model.MsgTypeSystem
	}

	msg := &model.Message{
		RecipientID: req.RecipientID,
		Title:       req.Title,
		Content:     req.Content,
		MsgType:     msgType,
		Status:      model.MsgStatusUnread,
		LinkType:    req.LinkType,
		LinkID:      req.LinkID,
		SenderID:    senderID,
	}
	if err := s.repo.Message.Create(ctx, msg); err != nil {
		s.logger.Error("创建消息失败", zap.String("recipient_id", req.RecipientID), zap.Error(err))
		return nil, err
	}
	s.invalidateUnread(ctx, req.RecipientID)
	return toMessageResponse(msg), nil
}

// BatchCreate 给多个接收者各发一条消息，单次 INSERT 落库
func (s *messageService) BatchCreate(ctx context.Context, recipientIDs []string, title, content, msgType, linkType, linkID string, senderID *string) (int, error) {
	if len(recipientIDs) == 0 {
		return 0, nil
	}
	if msgType == "" {
		msgType = model.MsgTypeSystem
	}

	msgs := make([]*model.Message, 0, len(recipientIDs))
	for _, rid := range recipientIDs {
		msgs = append(msgs, &model.Message{
			RecipientID: rid,
			Title:       title,
			Content:     content,
			MsgType:     msgType,
			Status:      model.MsgStatusUnread,
			LinkType:    linkType,
			LinkID:      linkID,
			SenderID:    senderID,
		})
	}
	if err := s.repo.Message.CreateBatch(ctx, msgs); err != nil {
		s.logger.Error("批量创建消息失败", zap.Int("count", len(msgs)), zap.Error(err))
		return 0, err
	}
	for _, rid := range recipientIDs {
		s.invalidateUnread(ctx, rid)
	}
	return len(msgs), nil
}

// ── 响应组装 ──

func toMessageResponse(m *model.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:          m.MessageID,
		RecipientID: m.RecipientID,
		Title:       m.Title,
		Content:     m.Content,
		MsgType:     m.MsgType,
		Status:      m.Status,
		LinkType:    m.LinkType,
		LinkID:      m.LinkID,
		ReadAt:      m.ReadAt,
		SenderID:    m.SenderID,
		CreatedAt:   m.CreatedAt,
	}
}
