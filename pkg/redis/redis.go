package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fast-admin/backend/config"
)

// Client Redis 客户端封装
// 用于 Token 黑名单与未读消息数缓存
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 未读消息数缓存 ──

const unreadCountPrefix = "msg:unread:"

// 缓存只是加速读路径；任何消息写操作都会使其失效，数据库始终是权威来源
const unreadCountTTL = 5 * time.Minute

// GetUnreadCount 读取用户未读消息数缓存，未命中返回 (0, false)
func (c *Client) GetUnreadCount(ctx context.Context, userID string) (int64, bool) {
	val, err := c.rdb.Get(ctx, unreadCountPrefix+userID).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetUnreadCount 写入用户未读消息数缓存
func (c *Client) SetUnreadCount(ctx context.Context, userID string, count int64) {
	if err := c.rdb.Set(ctx, unreadCountPrefix+userID, count, unreadCountTTL).Err(); err != nil {
		c.logger.Warn("写入未读数缓存失败", zap.String("user_id", userID), zap.Error(err))
	}
}

// InvalidateUnreadCount 删除用户未读消息数缓存
func (c *Client) InvalidateUnreadCount(ctx context.Context, userID string) {
	if err := c.rdb.Del(ctx, unreadCountPrefix+userID).Err(); err != nil {
		c.logger.Warn("删除未读数缓存失败", zap.String("user_id", userID), zap.Error(err))
	}
}

// ── 速率限制 ──

// CheckRateLimit 固定窗口计数器。首次命中时设置窗口 TTL，
// 窗口内计数超过 limit 返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
