package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

const defaultClaimTTL = 30 * time.Second

// CreationGuard holds unique user values in Redis while a creation is in
// flight, so two concurrent requests for the same username, phone or email
// cannot both pass the uniqueness check.
// Key format: user:claim:<field>:<value>
type CreationGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCreationGuard wraps client. Claims expire after ttl, defaultClaimTTL
// when ttl <= 0.
func NewCreationGuard(client *redis.Client, ttl time.Duration) *CreationGuard {
	if ttl <= 0 {
		ttl = defaultClaimTTL
	}
	return &CreationGuard{client: client, ttl: ttl}
}

var _ ports.CreationGuard = (*CreationGuard)(nil)

// Reserve takes the claims in order. On the first claim already held, or on
// any Redis error, the claims taken so far are given back.
func (g *CreationGuard) Reserve(ctx context.Context, claims []ports.UniqueClaim) (domain.UniqueField, error) {
	taken := make([]ports.UniqueClaim, 0, len(claims))
	for _, c := range claims {
		ok, err := g.client.SetNX(ctx, claimKey(c), "1", g.ttl).Result()
		if err != nil {
			_ = g.Release(context.WithoutCancel(ctx), taken)
			return "", fmt.Errorf("reserve %s: %w", c.Field, err)
		}
		if !ok {
			if err := g.Release(context.WithoutCancel(ctx), taken); err != nil {
				return "", err
			}
			return c.Field, nil
		}
		taken = append(taken, c)
	}
	return "", nil
}

// Release drops the given claims.
func (g *CreationGuard) Release(ctx context.Context, claims []ports.UniqueClaim) error {
	if len(claims) == 0 {
		return nil
	}
	keys := make([]string, len(claims))
	for i, c := range claims {
		keys[i] = claimKey(c)
	}
	if err := g.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("release claims: %w", err)
	}
	return nil
}

func claimKey(c ports.UniqueClaim) string {
	return fmt.Sprintf("user:claim:%s:%s", c.Field, c.Value)
}
