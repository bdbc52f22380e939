package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const jwtPrefix = "jwt."

// ErrNotBlacklisted токена нет в blacklist
var ErrNotBlacklisted = errors.New("token is not blacklisted")

func getJWTKey(token string) string {
	return servicePrefix + jwtPrefix + token
}

// WriteJWTToBlacklist кладёт токен в blacklist до истечения его срока
func (c *Client) WriteJWTToBlacklist(ctx context.Context, jwtStr string, jwtTTL time.Duration) error {
	return c.client.Set(ctx, getJWTKey(jwtStr), true, jwtTTL).Err()
}

// CheckJWTInBlacklist возвращает nil если токен в blacklist,
// ErrNotBlacklisted если его там нет, иначе ошибку redis.
func (c *Client) CheckJWTInBlacklist(ctx context.Context, jwtStr string) error {
	err := c.client.Get(ctx, getJWTKey(jwtStr)).Err()
	if errors.Is(err, redis.Nil) {
		return ErrNotBlacklisted
	}
	return err
}
