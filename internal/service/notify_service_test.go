package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/repository"
)

func setupNotifyService() (NotifyService, MessageService) {
	repo := &repository.Repository{
		Dept:         newMockDeptRepo(),
		User:         newMockUserRepo(),
		Message:      newMockMessageRepo(),
		Announcement: newMockAnnouncementRepo(),
	}
	messageSvc := NewMessageService(repo, nil, zap.NewNop())
	return NewNotifyService(messageSvc, zap.NewNop()), messageSvc
}

func TestNotifyService_ParseTemplate(t *testing.T) {
	svc, _ := setupNotifyService()

	data := map[string]interface{}{
		"user": map[string]interface{}{
			"name": "张三",
			"dept": map[string]interface{}{"name": "研发部"},
		},
		"count": 3,
	}

	cases := []struct {
		name     string
		template string
		want     string
	}{
		{"简单变量", "你好 ${user.name}", "你好 张三"},
		{"多级路径", "${user.name} 加入了 ${user.dept.name}", "张三 加入了 研发部"},
		{"数字值", "有 ${count} 条待办", "有 3 条待办"},
		{"未知变量原样保留", "你好 ${user.title}", "你好 ${user.title}"},
		{"路径中断原样保留", "${count.inner}", "${count.inner}"},
		{"无变量", "固定文案", "固定文案"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.ParseTemplate(tc.template, data)
			if got != tc.want {
				t.Errorf("期望 %q，实际 %q", tc.want, got)
			}
		})
	}
}

func TestNotifyService_ParseTemplate_NilData(t *testing.T) {
	svc, _ := setupNotifyService()

	got := svc.ParseTemplate("你好 ${user.name}", nil)
	if got != "你好 ${user.name}" {
		t.Errorf("空数据时模板应原样返回，实际 %q", got)
	}
}

func TestNotifyService_Send_SiteChannel(t *testing.T) {
	svc, messageSvc := setupNotifyService()

	results, err := svc.Send(context.Background(), &dto.NotifySendRequest{
		RecipientIDs: []string{"user-1", "user-2"},
		Title:        "你好 ${user.name}",
		Content:      "欢迎加入",
		Channels:     []string{ChannelSite},
		Context: map[string]interface{}{
			"user": map[string]interface{}{"name": "张三"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Send 应成功: %v", err)
	}
	if !results[ChannelSite] {
		t.Error("站内信渠道期望成功")
	}

	// 每个接收者各落一条消息，标题已渲染
	msgs, total, _ := messageSvc.List(context.Background(), "user-1", &dto.MessageListRequest{Page: 1, PageSize: 10})
	if total != 1 {
		t.Fatalf("接收者期望 1 条消息，实际=%d", total)
	}
	if msgs[0].Title != "你好 张三" {
		t.Errorf("标题应完成模板渲染，实际=%s", msgs[0].Title)
	}
}

func TestNotifyService_Send_DefaultChannel(t *testing.T) {
	svc, messageSvc := setupNotifyService()

	results, err := svc.Send(context.Background(), &dto.NotifySendRequest{
		RecipientIDs: []string{"user-1"},
		Title:        "通知",
		Content:      "内容",
	}, nil)
	if err != nil {
		t.Fatalf("Send 应成功: %v", err)
	}
	if !results[ChannelSite] {
		t.Error("渠道为空时应默认站内信")
	}

	resp, _ := messageSvc.UnreadCount(context.Background(), "user-1")
	if resp.Total != 1 {
		t.Errorf("默认渠道应落库消息，实际未读=%d", resp.Total)
	}
}

func TestNotifyService_Send_UnknownChannel(t *testing.T) {
	svc, _ := setupNotifyService()

	results, err := svc.Send(context.Background(), &dto.NotifySendRequest{
		RecipientIDs: []string{"user-1"},
		Title:        "通知",
		Content:      "内容",
		Channels:     []string{"pigeon", ChannelSite},
	}, nil)
	if err != nil {
		t.Fatalf("未知渠道不应中断发送: %v", err)
	}
	if results["pigeon"] {
		t.Error("未知渠道期望标记失败")
	}
	if !results[ChannelSite] {
		t.Error("其余渠道应照常发送")
	}
}
