package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/model"
	"fast-admin/backend/internal/repository"
)

func setupAnnouncementService() (AnnouncementService, *mockAnnouncementRepo, *mockUserRepo) {
	annRepo := newMockAnnouncementRepo()
	userRepo := newMockUserRepo()
	repo := &repository.Repository{
		Dept:         newMockDeptRepo(),
		User:         userRepo,
		Message:      newMockMessageRepo(),
		Announcement: annRepo,
	}
	return NewAnnouncementService(repo, zap.NewNop()), annRepo, userRepo
}

func mustCreateAnnouncement(t *testing.T, svc AnnouncementService, title, targetType string, targetIDs []string) *dto.AnnouncementResponse {
	t.Helper()
	ann, err := svc.Create(context.Background(), &dto.CreateAnnouncementRequest{
		Title:      title,
		Content:    "内容",
		TargetType: targetType,
		TargetIDs:  targetIDs,
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建公告应成功: %v", err)
	}
	return ann
}

func mustPublish(t *testing.T, svc AnnouncementService, id string) {
	t.Helper()
	if _, err := svc.Publish(context.Background(), id, "admin-001"); err != nil {
		t.Fatalf("发布应成功: %v", err)
	}
}

// ── 发布状态机测试 ──

func TestAnnouncementService_Create_StartsAsDraft(t *testing.T) {
	svc, _, _ := setupAnnouncementService()

	ann := mustCreateAnnouncement(t, svc, "通知", "", nil)
	if ann.Status != model.AnnouncementStatusDraft {
		t.Errorf("新公告期望 draft，实际=%s", ann.Status)
	}
	if ann.TargetType != model.TargetAll {
		t.Errorf("接收范围缺省期望 all，实际=%s", ann.TargetType)
	}
}

func TestAnnouncementService_Publish_DraftOnly(t *testing.T) {
	svc, _, _ := setupAnnouncementService()

	ann := mustCreateAnnouncement(t, svc, "通知", "all", nil)

	published, err := svc.Publish(context.Background(), ann.ID, "admin-001")
	if err != nil {
		t.Fatalf("发布草稿应成功: %v", err)
	}
	if published.Status != model.AnnouncementStatusPublished {
		t.Errorf("发布后期望 published，实际=%s", published.Status)
	}
	if published.PublishTime == nil || published.PublisherID == nil {
		t.Error("发布后应写入发布时间与发布人")
	}

	// 重复发布被拒绝
	_, err = svc.Publish(context.Background(), ann.ID, "admin-001")
	if !errors.Is(err, ErrAnnouncementNotDraft) {
		t.Errorf("重复发布期望 ErrAnnouncementNotDraft，实际: %v", err)
	}
}

func TestAnnouncementService_Create_BadTargetType(t *testing.T) {
	svc, _, _ := setupAnnouncementService()

	_, err := svc.Create(context.Background(), &dto.CreateAnnouncementRequest{
		Title:      "通知",
		Content:    "内容",
		TargetType: "group",
	}, "admin-001")
	if !errors.Is(err, ErrAnnouncementBadTarget) {
		t.Errorf("期望 ErrAnnouncementBadTarget，实际: %v", err)
	}
}

// ── 可见性测试 ──

func TestAnnouncementService_ListVisible_Audience(t *testing.T) {
	svc, _, _ := setupAnnouncementService()

	all := mustCreateAnnouncement(t, svc, "全员", "all", nil)
	dept := mustCreateAnnouncement(t, svc, "部门", "dept", []string{"dept-1"})
	otherDept := mustCreateAnnouncement(t, svc, "别的部门", "dept", []string{"dept-2"})
	user := mustCreateAnnouncement(t, svc, "指定用户", "user", []string{"user-1"})
	draft := mustCreateAnnouncement(t, svc, "草稿", "all", nil)

	mustPublish(t, svc, all.ID)
	mustPublish(t, svc, dept.ID)
	mustPublish(t, svc, otherDept.ID)
	mustPublish(t, svc, user.ID)
	_ = draft // 草稿不发布，不可见

	aud := model.Audience{UserID: "user-1", DeptIDs: []string{"dept-1"}}
	anns, total, err := svc.ListVisible(context.Background(), aud, &dto.MyAnnouncementListRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListVisible 应成功: %v", err)
	}
	if total != 3 {
		t.Fatalf("期望可见 3 条（全员+本部门+指定用户），实际=%d", total)
	}

	titles := map[string]bool{}
	for _, a := range anns {
		titles[a.Title] = true
	}
	if !titles["全员"] || !titles["部门"] || !titles["指定用户"] {
		t.Errorf("可见集合不正确: %v", titles)
	}
	if titles["别的部门"] || titles["草稿"] {
		t.Error("不应看到其他部门公告或草稿")
	}
}

func TestAnnouncementService_ListVisible_Expired(t *testing.T) {
	svc, annRepo, _ := setupAnnouncementService()

	ann := mustCreateAnnouncement(t, svc, "过期公告", "all", nil)
	mustPublish(t, svc, ann.ID)

	// 直接把过期时间改到过去
	stored, _ := annRepo.GetByID(context.Background(), ann.ID)
	past := time.Now().Add(-time.Hour)
	stored.ExpireTime = &past

	aud := model.Audience{UserID: "user-1"}
	_, total, err := svc.ListVisible(context.Background(), aud, &dto.MyAnnouncementListRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListVisible 应成功: %v", err)
	}
	if total != 0 {
		t.Errorf("过期公告不应可见，实际=%d", total)
	}
}

func TestAnnouncementService_ListVisible_IsReadAnnotation(t *testing.T) {
	svc, _, _ := setupAnnouncementService()

	a1 := mustCreateAnnouncement(t, svc, "已读的", "all", nil)
	a2 := mustCreateAnnouncement(t, svc, "未读的", "all", nil)
	mustPublish(t, svc, a1.ID)
	mustPublish(t, svc, a2.ID)

	if err := svc.MarkAsRead(context.Background(), a1.ID, "user-1"); err != nil {
		t.Fatalf("MarkAsRead 应成功: %v", err)
	}

	aud := model.Audience{UserID: "user-1"}
	anns, _, err := svc.ListVisible(context.Background(), aud, &dto.MyAnnouncementListRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListVisible 应成功: %v", err)
	}

	for _, a := range anns {
		switch a.ID {
		case a1.ID:
			if !a.IsRead {
				t.Error("已读公告的 is_read 应为 true")
			}
		case a2.ID:
			if a.IsRead {
				t.Error("未读公告的 is_read 应为 false")
			}
		}
	}

	// unread_only 只剩未读的
	anns, total, _ := svc.ListVisible(context.Background(), aud, &dto.MyAnnouncementListRequest{Page: 1, PageSize: 10, UnreadOnly: true})
	if total != 1 || anns[0].ID != a2.ID {
		t.Errorf("unread_only 期望只剩未读公告，实际 total=%d", total)
	}
}

// ── 阅读跟踪测试 ──

func TestAnnouncementService_MarkAsRead_Idempotent(t *testing.T) {
	svc, annRepo, _ := setupAnnouncementService()

	ann := mustCreateAnnouncement(t, svc, "通知", "all", nil)
	mustPublish(t, svc, ann.ID)

	if err := svc.MarkAsRead(context.Background(), ann.ID, "user-1"); err != nil {
		t.Fatalf("首次阅读应成功: %v", err)
	}
	if err := svc.MarkAsRead(context.Background(), ann.ID, "user-1"); err != nil {
		t.Fatalf("重复阅读应幂等: %v", err)
	}

	stored, _ := annRepo.GetByID(context.Background(), ann.ID)
	if stored.ReadCount != 1 {
		t.Errorf("重复阅读 read_count 只应自增一次，实际=%d", stored.ReadCount)
	}

	// 不同用户再读，计数+1
	svc.MarkAsRead(context.Background(), ann.ID, "user-2")
	stored, _ = annRepo.GetByID(context.Background(), ann.ID)
	if stored.ReadCount != 2 {
		t.Errorf("第二个读者后期望 read_count=2，实际=%d", stored.ReadCount)
	}
}

func TestAnnouncementService_UnreadCount(t *testing.T) {
	svc, _, _ := setupAnnouncementService()

	a1 := mustCreateAnnouncement(t, svc, "一", "all", nil)
	a2 := mustCreateAnnouncement(t, svc, "二", "all", nil)
	mustPublish(t, svc, a1.ID)
	mustPublish(t, svc, a2.ID)

	aud := model.Audience{UserID: "user-1"}
	count, err := svc.UnreadCount(context.Background(), aud)
	if err != nil {
		t.Fatalf("UnreadCount 应成功: %v", err)
	}
	if count != 2 {
		t.Errorf("期望未读 2，实际=%d", count)
	}

	svc.MarkAsRead(context.Background(), a1.ID, "user-1")
	count, _ = svc.UnreadCount(context.Background(), aud)
	if count != 1 {
		t.Errorf("阅读一条后期望未读 1，实际=%d", count)
	}
}

func TestAnnouncementService_ReadStats(t *testing.T) {
	svc, _, userRepo := setupAnnouncementService()

	reader := &model.User{Username: "zhangsan", Name: "张三"}
	userRepo.Create(context.Background(), reader)

	ann := mustCreateAnnouncement(t, svc, "通知", "all", nil)
	mustPublish(t, svc, ann.ID)
	svc.MarkAsRead(context.Background(), ann.ID, reader.UserID)

	stats, err := svc.ReadStats(context.Background(), ann.ID)
	if err != nil {
		t.Fatalf("ReadStats 应成功: %v", err)
	}
	if stats.TotalRead != 1 {
		t.Errorf("期望 total_read=1，实际=%d", stats.TotalRead)
	}
	if len(stats.Readers) != 1 || stats.Readers[0].UserName != "张三" {
		t.Errorf("阅读者应带姓名，实际=%+v", stats.Readers)
	}
}
