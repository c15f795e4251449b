package store

import (
	"context"
	"fmt"

	"recipe-forge/internal/core/recipe"
	"recipe-forge/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	recipeKeyPrefix = "recipe:saved:"
	indexKey        = "recipe:saved:index"
)

// Store 已儲存食譜的 Redis 持久層。
// 每份食譜一個 JSON key，另以 set 維護 ID 索引供列舉。
type Store struct {
	client *redis.Client
}

// NewStore 創建食譜儲存並驗證連線
func NewStore(ctx context.Context, addr string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	common.LogInfo("食譜儲存已連線", zap.String("addr", addr))
	return &Store{client: client}, nil
}

// Save 儲存食譜並返回其 ID；ID 為空時自動配發
func (s *Store) Save(ctx context.Context, rec *recipe.Recipe) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	raw, err := common.ToJSON(rec)
	if err != nil {
		return "", fmt.Errorf("failed to serialize recipe: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recipeKeyPrefix+rec.ID, raw, 0)
	pipe.SAdd(ctx, indexKey, rec.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to save recipe %s: %w", rec.ID, err)
	}

	common.LogInfo("食譜已儲存", zap.String("id", rec.ID), zap.String("name", rec.Name))
	return rec.ID, nil
}

// Remove 刪除食譜；不存在時為空操作
func (s *Store) Remove(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, recipeKeyPrefix+id)
	pipe.SRem(ctx, indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove recipe %s: %w", id, err)
	}
	return nil
}

// Contains 回報食譜是否已儲存
func (s *Store) Contains(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, indexKey, id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check recipe %s: %w", id, err)
	}
	return ok, nil
}

// Get 取回單份食譜；不存在時返回 nil
func (s *Store) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	raw, err := s.client.Get(ctx, recipeKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %s: %w", id, err)
	}

	var rec recipe.Recipe
	if err := common.ParseJSON(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode stored recipe %s: %w", id, err)
	}
	return &rec, nil
}

// List 列出所有已儲存的食譜。索引裡有但本體遺失的 ID 直接跳過。
func (s *Store) List(ctx context.Context) ([]*recipe.Recipe, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}

	recipes := make([]*recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(ctx, id)
		if err != nil {
			common.LogWarn("跳過無法讀取的食譜", zap.String("id", id), zap.Error(err))
			continue
		}
		if rec != nil {
			recipes = append(recipes, rec)
		}
	}
	return recipes, nil
}

// Close 關閉底層連線
func (s *Store) Close() error {
	return s.client.Close()
}
