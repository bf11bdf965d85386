package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"fast-admin/backend/internal/dto"
)

// ChannelSite 站内信渠道，当前唯一内置实现
const ChannelSite = "site"

// 模板变量形如 ${user.name}，路径按 . 逐级取值
var templateVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// NotifyService 多渠道通知接口。
// 站内信渠道落库为消息，其余渠道由接入方实现；
// 未知渠道记日志并标记失败，不中断其余渠道。
type NotifyService interface {
	Send(ctx context.Context, req *dto.NotifySendRequest, senderID *string) (map[string]bool, error)
	ParseTemplate(template string, data map[string]interface{}) string
}

type notifyService struct {
	messageSvc MessageService
	logger     *zap.Logger
}

// NewNotifyService 创建 NotifyService 实例
func NewNotifyService(messageSvc MessageService, logger *zap.Logger) NotifyService {
	return &notifyService{messageSvc: messageSvc, logger: logger}
}

// ParseTemplate 渲染通知模板。变量路径在 data 中找不到时原样保留
func (s *notifyService) ParseTemplate(template string, data map[string]interface{}) string {
	if len(data) == 0 {
		return template
	}
	return templateVarPattern.ReplaceAllStringFunc(template, func(match string) string {
		path := match[2 : len(match)-1]
		if val, ok := lookupPath(data, path); ok {
			return fmt.Sprintf("%v", val)
		}
		return match
	})
}

// lookupPath 按点分路径在嵌套 map 中取值
func lookupPath(data map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = data
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Send 按渠道分发通知，返回各渠道发送结果。
// 渠道为空时默认站内信
func (s *notifyService) Send(ctx context.Context, req *dto.NotifySendRequest, senderID *string) (map[string]bool, error) {
	channels := req.Channels
	if len(channels) == 0 {
		channels = []string{ChannelSite}
	}

	title := s.ParseTemplate(req.Title, req.Context)
	content := s.ParseTemplate(req.Content, req.Context)

	results := make(map[string]bool, len(channels))
	for _, channel := range channels {
		switch channel {
		case ChannelSite:
			_, err := s.messageSvc.BatchCreate(ctx, req.RecipientIDs, title, content,
				req.MsgType, req.LinkType, req.LinkID, senderID)
			if err != nil {
				s.logger.Error("站内信发送失败", zap.Int("recipients", len(req.RecipientIDs)), zap.Error(err))
				results[channel] = false
				continue
			}
			results[channel] = true
		default:
			s.logger.Warn("未知通知渠道", zap.String("channel", channel))
			results[channel] = false
		}
	}
	return results, nil
}
