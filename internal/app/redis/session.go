package redis

import (
	"context"
	"time"
)

// SaveSession сохраняет сериализованное состояние сессии с TTL
func (c *Client) SaveSession(ctx context.Context, sessionID string, data []byte, expiresIn time.Duration) error {
	return c.Set(ctx, sessionPrefix+sessionID, data, expiresIn)
}

// GetSession возвращает сериализованное состояние сессии
func (c *Client) GetSession(ctx context.Context, sessionID string) ([]byte, error) {
	return c.GetBytes(ctx, sessionPrefix+sessionID)
}

// RefreshSession продлевает TTL состояния сессии
func (c *Client) RefreshSession(ctx context.Context, sessionID string, expiresIn time.Duration) error {
	ok, err := c.Expire(ctx, sessionPrefix+sessionID, expiresIn)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeleteSession удаляет состояние сессии
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.Delete(ctx, sessionPrefix+sessionID)
}
