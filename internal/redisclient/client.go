package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	checkoutDetailsTTL = 90 * 24 * time.Hour
	sessionTTL         = 12 * time.Hour
)

type Client struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, logger: util.GetLogger()}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func detailsKey(owner string) string {
	return fmt.Sprintf("checkout:details:%s", owner)
}

// SaveCheckoutDetails persists the remember-me customer details for a
// checkout owner
func (c *Client) SaveCheckoutDetails(ctx context.Context, owner string, details models.SavedDetails) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout details: %w", err)
	}
	return c.rdb.Set(ctx, detailsKey(owner), payload, checkoutDetailsTTL).Err()
}

// LoadCheckoutDetails loads saved customer details. A missing key
// returns nil without error; a corrupt value is discarded and the
// checkout proceeds empty.
func (c *Client) LoadCheckoutDetails(ctx context.Context, owner string) (*models.SavedDetails, error) {
	payload, err := c.rdb.Get(ctx, detailsKey(owner)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var details models.SavedDetails
	if err := json.Unmarshal(payload, &details); err != nil {
		c.logger.Warn("Discarding corrupt saved checkout details",
			zap.String("owner", owner),
			zap.Error(err))
		_ = c.rdb.Del(ctx, detailsKey(owner)).Err()
		return nil, nil
	}

	return &details, nil
}

// ClearCheckoutDetails removes saved customer details when the customer
// opts out of remembering
func (c *Client) ClearCheckoutDetails(ctx context.Context, owner string) error {
	return c.rdb.Del(ctx, detailsKey(owner)).Err()
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// CreateSession marks a login token as valid
func (c *Client) CreateSession(ctx context.Context, token string) error {
	return c.rdb.Set(ctx, sessionKey(token), "1", sessionTTL).Err()
}

// SessionValid reports whether a login token is active
func (c *Client) SessionValid(ctx context.Context, token string) (bool, error) {
	result, err := c.rdb.Exists(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}
