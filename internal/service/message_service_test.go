package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/model"
	"fast-admin/backend/internal/repository"
)

func setupMessageService() (MessageService, *mockMessageRepo) {
	msgRepo := newMockMessageRepo()
	repo := &repository.Repository{
		Dept:         newMockDeptRepo(),
		User:         newMockUserRepo(),
		Message:      msgRepo,
		Announcement: newMockAnnouncementRepo(),
	}
	// cache 为 nil：未读数直接走 mock 仓储
	return NewMessageService(repo, nil, zap.NewNop()), msgRepo
}

func mustCreateMessage(t *testing.T, svc MessageService, recipientID, title, msgType string) *dto.MessageResponse {
	t.Helper()
	msg, err := svc.Create(context.Background(), &dto.CreateMessageRequest{
		RecipientID: recipientID,
		Title:       title,
		Content:     "内容",
		MsgType:     msgType,
	}, nil)
	if err != nil {
		t.Fatalf("创建消息应成功: %v", err)
	}
	return msg
}

func TestMessageService_Create_DefaultsUnread(t *testing.T) {
	svc, _ := setupMessageService()

	msg := mustCreateMessage(t, svc, "user-1", "欢迎", "")

	if msg.Status != model.MsgStatusUnread {
		t.Errorf("新消息期望 unread，实际=%s", msg.Status)
	}
	if msg.MsgType != model.MsgTypeSystem {
		t.Errorf("类型缺省期望 system，实际=%s", msg.MsgType)
	}
}

func TestMessageService_MarkAsRead_Idempotent(t *testing.T) {
	svc, _ := setupMessageService()

	msg := mustCreateMessage(t, svc, "user-1", "欢迎", "system")

	first, err := svc.MarkAsRead(context.Background(), msg.ID, "user-1")
	if err != nil {
		t.Fatalf("首次标记已读应成功: %v", err)
	}
	if first.Status != model.MsgStatusRead || first.ReadAt == nil {
		t.Fatal("标记后期望 status=read 且 read_at 非空")
	}

	// 重复标记幂等，read_at 不变
	second, err := svc.MarkAsRead(context.Background(), msg.ID, "user-1")
	if err != nil {
		t.Fatalf("重复标记应成功: %v", err)
	}
	if !second.ReadAt.Equal(*first.ReadAt) {
		t.Error("重复标记不应重写 read_at")
	}
}

func TestMessageService_MarkAsRead_WrongRecipient(t *testing.T) {
	svc, _ := setupMessageService()

	msg := mustCreateMessage(t, svc, "user-1", "欢迎", "system")

	_, err := svc.MarkAsRead(context.Background(), msg.ID, "user-2")
	if !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("他人消息应不可见，期望 ErrMessageNotFound，实际: %v", err)
	}
}

func TestMessageService_UnreadCount(t *testing.T) {
	svc, _ := setupMessageService()

	mustCreateMessage(t, svc, "user-1", "一", "system")
	mustCreateMessage(t, svc, "user-1", "二", "todo")
	mustCreateMessage(t, svc, "user-1", "三", "todo")
	mustCreateMessage(t, svc, "user-2", "别人的", "system")

	resp, err := svc.UnreadCount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("UnreadCount 应成功: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("期望 total=3，实际=%d", resp.Total)
	}
	if resp.ByType[model.MsgTypeTodo] != 2 {
		t.Errorf("期望 todo=2，实际=%d", resp.ByType[model.MsgTypeTodo])
	}
	if resp.ByType[model.MsgTypeSystem] != 1 {
		t.Errorf("期望 system=1，实际=%d", resp.ByType[model.MsgTypeSystem])
	}
}

func TestMessageService_MarkAllAsRead_ByType(t *testing.T) {
	svc, _ := setupMessageService()

	mustCreateMessage(t, svc, "user-1", "一", "system")
	mustCreateMessage(t, svc, "user-1", "二", "todo")
	mustCreateMessage(t, svc, "user-1", "三", "todo")

	count, err := svc.MarkAllAsRead(context.Background(), "user-1", model.MsgTypeTodo)
	if err != nil {
		t.Fatalf("MarkAllAsRead 应成功: %v", err)
	}
	if count != 2 {
		t.Errorf("期望影响 2 条，实际=%d", count)
	}

	resp, _ := svc.UnreadCount(context.Background(), "user-1")
	if resp.Total != 1 {
		t.Errorf("全读 todo 后期望剩余未读 1，实际=%d", resp.Total)
	}
}

func TestMessageService_DeleteAllRead(t *testing.T) {
	svc, _ := setupMessageService()

	m1 := mustCreateMessage(t, svc, "user-1", "一", "system")
	mustCreateMessage(t, svc, "user-1", "二", "system")

	svc.MarkAsRead(context.Background(), m1.ID, "user-1")

	count, err := svc.DeleteAllRead(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("DeleteAllRead 应成功: %v", err)
	}
	if count != 1 {
		t.Errorf("期望删除 1 条已读，实际=%d", count)
	}

	// 未读的保留
	msgs, total, _ := svc.List(context.Background(), "user-1", &dto.MessageListRequest{Page: 1, PageSize: 10})
	if total != 1 || len(msgs) != 1 {
		t.Errorf("期望剩余 1 条消息，实际 total=%d", total)
	}
	if msgs[0].Title != "二" {
		t.Errorf("剩余的应是未读消息，实际=%s", msgs[0].Title)
	}
}

func TestMessageService_BatchCreate(t *testing.T) {
	svc, _ := setupMessageService()

	count, err := svc.BatchCreate(context.Background(),
		[]string{"user-1", "user-2", "user-3"}, "全员通知", "内容", "", "", "", nil)
	if err != nil {
		t.Fatalf("BatchCreate 应成功: %v", err)
	}
	if count != 3 {
		t.Errorf("期望创建 3 条，实际=%d", count)
	}

	resp, _ := svc.UnreadCount(context.Background(), "user-2")
	if resp.Total != 1 {
		t.Errorf("每个接收者各一条未读，实际=%d", resp.Total)
	}
}
