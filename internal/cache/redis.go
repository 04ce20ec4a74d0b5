// Package cache holds the Redis-backed folder tree cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"educreate/internal/domain/models"
)

// NewRedisClient connects to the Redis instance at url (redis://...) and
// returns the client with its cleanup function
func NewRedisClient(ctx context.Context, url string, logger *slog.Logger) (*redis.Client, func(), error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, func() {}, fmt.Errorf("parse redis url: %w", err)
	}

	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, func() {}, fmt.Errorf("ping redis: %w", err)
	}

	return cli, func() {
		if err := cli.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}, nil
}

// generationTTL bounds how long an idle user's generation counter lives.
const generationTTL = 24 * time.Hour

var errStaleTree = errors.New("tree generation changed")

// RedisTreeCache keeps one hash per user, with a field per folder type
// holding the JSON-encoded tree, and a counter key holding the user's
// generation. Invalidation bumps the counter and drops the whole hash.
type RedisTreeCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisTreeCache creates a tree cache whose entries expire after ttl
func NewRedisTreeCache(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisTreeCache {
	return &RedisTreeCache{client: client, ttl: ttl, logger: logger}
}

func treeKey(userID string) string {
	return "educreate:folders:tree:" + userID
}

func generationKey(userID string) string {
	return "educreate:folders:gen:" + userID
}

// Generation reads the user's invalidation counter; a missing key is 0
func (c *RedisTreeCache) Generation(ctx context.Context, userID string) (int64, bool) {
	gen, err := c.client.Get(ctx, generationKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("tree cache generation read failed", "user_id", userID, "error", err)
		return 0, false
	}
	return gen, true
}

// Get returns the cached tree. Any Redis error is reported as a miss.
func (c *RedisTreeCache) Get(ctx context.Context, userID string, folderType models.FolderType) ([]*models.FolderTreeNode, bool) {
	data, err := c.client.HGet(ctx, treeKey(userID), string(folderType)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("tree cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var tree []*models.FolderTreeNode
	if err := json.Unmarshal(data, &tree); err != nil {
		c.logger.Warn("tree cache entry corrupt", "user_id", userID, "type", folderType, "error", err)
		return nil, false
	}
	return tree, true
}

// Set stores a tree built at generation and refreshes the user's TTL. The
// write is dropped when the generation moved on; WATCH makes the check and
// the write atomic against a concurrent Invalidate.
func (c *RedisTreeCache) Set(ctx context.Context, userID string, folderType models.FolderType, generation int64, tree []*models.FolderTreeNode) {
	data, err := json.Marshal(tree)
	if err != nil {
		c.logger.Warn("tree cache encode failed", "user_id", userID, "error", err)
		return
	}

	key, genKey := treeKey(userID), generationKey(userID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleTree
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, string(folderType), data)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleTree), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("tree cache write skipped, folders changed", "user_id", userID, "type", folderType)
	default:
		c.logger.Warn("tree cache write failed", "user_id", userID, "error", err)
	}
}

// Invalidate advances the user's generation and drops every cached tree
func (c *RedisTreeCache) Invalidate(ctx context.Context, userID string) {
	genKey := generationKey(userID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, treeKey(userID))
		return nil
	})
	if err != nil {
		c.logger.Warn("tree cache invalidation failed", "user_id", userID, "error", err)
	}
}
