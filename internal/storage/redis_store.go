// Package storage 提供对局快照与玩家会话的 Redis 持久化。
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/guts/internal/game/session"
)

const (
	// Redis key 前缀
	gameKeyPrefix    = "game:"
	sessionKeyPrefix = "session:"

	// 对局数据过期时间
	gameExpiration = 2 * time.Hour
)

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- 对局存储 ---

// SaveGame 保存对局快照
func (rs *RedisStore) SaveGame(ctx context.Context, snap *session.Snapshot) error {
	if snap == nil {
		return nil
	}

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("序列化对局数据失败: %w", err)
	}

	key := gameKeyPrefix + snap.Code
	return rs.client.Set(ctx, key, jsonData, gameExpiration).Err()
}

// LoadGame 加载对局快照，不存在时返回 nil
func (rs *RedisStore) LoadGame(ctx context.Context, code string) (*session.Snapshot, error) {
	key := gameKeyPrefix + code
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 对局不存在
		}
		return nil, err
	}

	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("反序列化对局数据失败: %w", err)
	}

	return &snap, nil
}

// DeleteGame 删除对局快照
func (rs *RedisStore) DeleteGame(ctx context.Context, code string) error {
	key := gameKeyPrefix + code
	return rs.client.Del(ctx, key).Err()
}

// GetAllGameCodes 获取所有对局房间号
func (rs *RedisStore) GetAllGameCodes(ctx context.Context) ([]string, error) {
	keys, err := rs.client.Keys(ctx, gameKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(keys))
	for i, key := range keys {
		codes[i] = key[len(gameKeyPrefix):]
	}
	return codes, nil
}

// --- 会话存储 ---

// PlayerSessionData 玩家会话数据（用于 Redis 序列化）
type PlayerSessionData struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"token"`
	RoomCode       string `json:"room_code"`
	IsOnline       bool   `json:"is_online"`
	DisconnectedAt int64  `json:"disconnected_at,omitempty"`
}

// SaveSession 保存会话
func (rs *RedisStore) SaveSession(ctx context.Context, sess *PlayerSessionData) error {
	data := map[string]any{
		"player_id":   sess.PlayerID,
		"player_name": sess.PlayerName,
		"token":       sess.ReconnectToken,
		"room_code":   sess.RoomCode,
		"is_online":   sess.IsOnline,
	}

	if sess.DisconnectedAt != 0 {
		data["disconnected_at"] = sess.DisconnectedAt
	}

	key := sessionKeyPrefix + sess.PlayerID
	return rs.client.HSet(ctx, key, data).Err()
}

// LoadSession 加载会话，不存在时返回 nil
func (rs *RedisStore) LoadSession(ctx context.Context, playerID string) (*PlayerSessionData, error) {
	key := sessionKeyPrefix + playerID
	data, err := rs.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &PlayerSessionData{
		PlayerID:       data["player_id"],
		PlayerName:     data["player_name"],
		ReconnectToken: data["token"],
		RoomCode:       data["room_code"],
		IsOnline:       data["is_online"] == "1",
	}, nil
}

// DeleteSession 删除会话
func (rs *RedisStore) DeleteSession(ctx context.Context, playerID string) error {
	key := sessionKeyPrefix + playerID
	return rs.client.Del(ctx, key).Err()
}

// SetGameExpiration 设置对局过期时间
func (rs *RedisStore) SetGameExpiration(ctx context.Context, code string, expiration time.Duration) error {
	key := gameKeyPrefix + code
	return rs.client.Expire(ctx, key, expiration).Err()
}
