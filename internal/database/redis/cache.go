package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apcaballes87/cake-genie/internal/entity"
)

// EstimateCache keeps resolved price estimates so repeated reads skip the
// database. A miss returns (nil, nil).
type EstimateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEstimateCache(client *redis.Client, ttl time.Duration) *EstimateCache {
	return &EstimateCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *EstimateCache) SetEstimate(ctx context.Context, estimate *entity.PriceEstimate) error {
	data, err := json.Marshal(estimate)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, "estimate:"+estimate.ID, data, c.ttl).Err()
}

func (c *EstimateCache) GetEstimate(ctx context.Context, id string) (*entity.PriceEstimate, error) {
	data, err := c.client.Get(ctx, "estimate:"+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var estimate entity.PriceEstimate
	if err := json.Unmarshal([]byte(data), &estimate); err != nil {
		return nil, err
	}

	return &estimate, nil
}

func (c *EstimateCache) DeleteEstimate(ctx context.Context, id string) error {
	return c.client.Del(ctx, "estimate:"+id).Err()
}
