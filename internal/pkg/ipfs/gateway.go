package ipfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"neftit/internal/datastore/redis_store"
	"neftit/internal/interfaces"
)

var ErrAllGatewaysFailed = errors.New("all ipfs gateways failed")

// DefaultGateways are tried in order; the first healthy response wins.
var DefaultGateways = []string{
	"https://nftstorage.link/ipfs/%s",
	"https://gateway.pinata.cloud/ipfs/%s",
	"https://ipfs.io/ipfs/%s",
	"https://dweb.link/ipfs/%s",
}

const contentTTL = 24 * time.Hour

type GatewayResolver struct {
	gateways []string
	client   *http.Client
	redis    redis.Cmdable
}

var _ interfaces.ContentResolver = (*GatewayResolver)(nil)

func NewGatewayResolver(redisClient redis.Cmdable, gateways []string) *GatewayResolver {
	if len(gateways) == 0 {
		gateways = DefaultGateways
	}
	return &GatewayResolver{
		gateways: gateways,
		client:   &http.Client{Timeout: 10 * time.Second},
		redis:    redisClient,
	}
}

// Resolve fetches the content behind cid, consulting the redis cache
// first. Gateways are walked in order until one answers.
func (r *GatewayResolver) Resolve(ctx context.Context, cid string) ([]byte, error) {
	if r.redis != nil {
		if data, err := redis_store.GetContent(ctx, r.redis, cid); err == nil {
			return data, nil
		}
	}

	var lastErr error = ErrAllGatewaysFailed
	for _, gateway := range r.gateways {
		data, err := r.fetch(ctx, fmt.Sprintf(gateway, cid))
		if err != nil {
			lastErr = err
			continue
		}
		if r.redis != nil {
			//nolint:errcheck
			redis_store.SaveContent(ctx, r.redis, cid, data, contentTTL)
		}
		return data, nil
	}

	return nil, lastErr
}

func (r *GatewayResolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway %s: status %d", url, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}
