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
)

// ── 公告模块业务错误 ──

var (
	ErrAnnouncementNotFound  = errors.New("公告不存在")
	ErrAnnouncementNotDraft  = errors.New("只有草稿状态的公告可以发布")
	ErrAnnouncementBadTarget = errors.New("接收范围类型必须是 all/dept/role/user 之一")
)

// 阅读统计单次最多返回的阅读者数
const readStatsLimit = 100

// AnnouncementService 公告业务接口
type AnnouncementService interface {
	Create(ctx context.Context, req *dto.CreateAnnouncementRequest, callerID string) (*dto.AnnouncementResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AnnouncementResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest, callerID string) (*dto.AnnouncementResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	List(ctx context.Context, req *dto.AnnouncementListRequest) ([]dto.AnnouncementResponse, int64, error)
	ListVisible(ctx context.Context, aud model.Audience, req *dto.MyAnnouncementListRequest) ([]dto.AnnouncementResponse, int64, error)
	Publish(ctx context.Context, id, publisherID string) (*dto.AnnouncementResponse, error)
	MarkAsRead(ctx context.Context, id, userID string) error
	UnreadCount(ctx context.Context, aud model.Audience) (int64, error)
	ReadStats(ctx context.Context, id string) (*dto.AnnouncementReadStats, error)
}

type announcementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnnouncementService 创建 AnnouncementService 实例
func NewAnnouncementService(repo *repository.Repository, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, logger: logger}
}

func (s *announcementService) Create(ctx context.Context, req *dto.CreateAnnouncementRequest, callerID string) (*dto.AnnouncementResponse, error) {
	targetType := req.TargetType
	if targetType == "" {
		targetType = model.TargetAll
	}
	if !model.ValidTargetType(targetType) {
		return nil, ErrAnnouncementBadTarget
	}

	targetIDs := req.TargetIDs
	if targetIDs == nil {
		targetIDs = []string{}
	}

	ann := &model.Announcement{
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		Status:     model.AnnouncementStatusDraft,
		Priority:   req.Priority,
		IsTop:      req.IsTop,
		TargetType: targetType,
		TargetIDs:  targetIDs,
		ExpireTime: req.ExpireTime,
	}
	ann.CreatedBy = &callerID
	ann.UpdatedBy = &callerID

	if err := s.repo.Announcement.Create(ctx, ann); err != nil {
		s.logger.Error("创建公告失败", zap.Error(err))
		return nil, err
	}
	return toAnnouncementResponse(ann), nil
}

func (s *announcementService) GetByID(ctx context.Context, id string) (*dto.AnnouncementResponse, error) {
	ann, err := s.getAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAnnouncementResponse(ann), nil
}

func (s *announcementService) getAnnouncement(ctx context.Context, id string) (*model.Announcement, error) {
	ann, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		s.logger.Error("查询公告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return ann, nil
}

func (s *announcementService) Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest, callerID string) (*dto.AnnouncementResponse, error) {
	ann, err := s.getAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TargetType != nil {
		if !model.ValidTargetType(*req.TargetType) {
			return nil, ErrAnnouncementBadTarget
		}
		ann.TargetType = *req.TargetType
	}
	if req.Title != nil {
		ann.Title = *req.Title
	}
	if req.Content != nil {
		ann.Content = *req.Content
	}
	if req.Summary != nil {
		ann.Summary = *req.Summary
	}
	if req.Priority != nil {
		ann.Priority = *req.Priority
	}
	if req.IsTop != nil {
		ann.IsTop = *req.IsTop
	}
	if req.TargetIDs != nil {
		ann.TargetIDs = req.TargetIDs
	}
	if req.ExpireTime != nil {
		ann.ExpireTime = req.ExpireTime
	}
	ann.UpdatedBy = &callerID

	if err := s.repo.Announcement.Save(ctx, ann); err != nil {
		s.logger.Error("更新公告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAnnouncementResponse(ann), nil
}

func (s *announcementService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.getAnnouncement(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Announcement.SoftDelete(ctx, id, callerID); err != nil {
		s.logger.Error("删除公告失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// List 管理端列表，不做可见性过滤
func (s *announcementService) List(ctx context.Context, req *dto.AnnouncementListRequest) ([]dto.AnnouncementResponse, int64, error) {
	offset := (req.Page - 1) * req.PageSize
	anns, total, err := s.repo.Announcement.List(ctx, req.Status, req.Keyword, offset, req.PageSize)
	if err != nil {
		s.logger.Error("查询公告列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AnnouncementResponse, 0, len(anns))
	for i := range anns {
		result = append(result, *toAnnouncementResponse(&anns[i]))
	}
	return result, total, nil
}

// ListVisible 当前用户可见的公告，逐条标注 is_read。
// 阅读标记用一条 IN 查询取回，不逐条探测
func (s *announcementService) ListVisible(ctx context.Context, aud model.Audience, req *dto.MyAnnouncementListRequest) ([]dto.AnnouncementResponse, int64, error) {
	offset := (req.Page - 1) * req.PageSize
	anns, total, err := s.repo.Announcement.ListVisible(ctx, aud, req.UnreadOnly, time.Now(), offset, req.PageSize)
	if err != nil {
		s.logger.Error("查询可见公告失败", zap.String("user_id", aud.UserID), zap.Error(err))
		return nil, 0, err
	}

	ids := make([]string, len(anns))
	for i := range anns {
		ids[i] = anns[i].AnnouncementID
	}
	readMap, err := s.repo.Announcement.ReadIDs(ctx, aud.UserID, ids)
	if err != nil {
		s.logger.Error("查询阅读记录失败", zap.String("user_id", aud.UserID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AnnouncementResponse, 0, len(anns))
	for i := range anns {
		anns[i].IsRead = readMap[anns[i].AnnouncementID]
		result = append(result, *toAnnouncementResponse(&anns[i]))
	}
	return result, total, nil
}

// Publish 发布公告。仅草稿可发布，发布即写入发布时间与发布人
func (s *announcementService) Publish(ctx context.Context, id, publisherID string) (*dto.AnnouncementResponse, error) {
	ann, err := s.getAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	if ann.Status != model.AnnouncementStatusDraft {
		return nil, ErrAnnouncementNotDraft
	}

	now := time.Now()
	ann.Status = model.AnnouncementStatusPublished
	ann.PublishTime = &now
	ann.PublisherID = &publisherID
	ann.UpdatedBy = &publisherID

	if err := s.repo.Announcement.Save(ctx, ann); err != nil {
		s.logger.Error("发布公告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAnnouncementResponse(ann), nil
}

// MarkAsRead 标记公告已读。重复标记幂等，read_count 只在首读自增
func (s *announcementService) MarkAsRead(ctx context.Context, id, userID string) error {
	if _, err := s.getAnnouncement(ctx, id); err != nil {
		return err
	}
	if _, err := s.repo.Announcement.MarkRead(ctx, id, userID, time.Now()); err != nil {
		s.logger.Error("标记公告已读失败", zap.String("id", id), zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *announcementService) UnreadCount(ctx context.Context, aud model.Audience) (int64, error) {
	count, err := s.repo.Announcement.CountVisibleUnread(ctx, aud, time.Now())
	if err != nil {
		s.logger.Error("统计未读公告失败", zap.String("user_id", aud.UserID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

// ReadStats 公告阅读统计。total_read 取计数字段，
// 阅读者明细按阅读时间倒序、上限 readStatsLimit 条
func (s *announcementService) ReadStats(ctx context.Context, id string) (*dto.AnnouncementReadStats, error) {
	ann, err := s.getAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}

	reads, err := s.repo.Announcement.ListReads(ctx, id, readStatsLimit)
	if err != nil {
		s.logger.Error("查询阅读记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	readers := make([]dto.AnnouncementReader, 0, len(reads))
	for _, read := range reads {
		reader := dto.AnnouncementReader{UserID: read.UserID, ReadAt: read.ReadAt}
		if user, err := s.repo.User.GetByID(ctx, read.UserID); err == nil {
			reader.UserName = user.Name
		}
		readers = append(readers, reader)
	}

	return &dto.AnnouncementReadStats{TotalRead: ann.ReadCount, Readers: readers}, nil
}

// ── 响应组装 ──

func toAnnouncementResponse(a *model.Announcement) *dto.AnnouncementResponse {
	return &dto.AnnouncementResponse{
		ID:          a.AnnouncementID,
		Title:       a.Title,
		Content:     a.Content,
		Summary:     a.Summary,
		Status:      a.Status,
		Priority:    a.Priority,
		IsTop:       a.IsTop,
		TargetType:  a.TargetType,
		TargetIDs:   a.TargetIDs,
		PublishTime: a.PublishTime,
		ExpireTime:  a.ExpireTime,
		PublisherID: a.PublisherID,
		ReadCount:   a.ReadCount,
		IsRead:      a.IsRead,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
