package redis_store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"neftit/internal/models"
)

func dbKeyStakingSummary(wallet string) string {
	return fmt.Sprintf("staking:summary:%s", strings.ToLower(wallet))
}

func dbKeyAccrualRun(day time.Time) string {
	return fmt.Sprintf("accrual:run:%s", day.Format("2006-01-02"))
}

func dbKeyContent(cid string) string {
	return fmt.Sprintf("content:%s", cid)
}

func GetStakingSummary(ctx context.Context, cmd redis.Cmdable, wallet string) (*models.StakingSummary, error) {
	var v *models.StakingSummary
	b, err := cmd.Get(ctx, dbKeyStakingSummary(wallet)).Bytes()
	if err != nil {
		return nil, err
	}

	err = msgpack.Unmarshal(b, &v)
	return v, err
}

func SaveStakingSummary(ctx context.Context, cmd redis.Cmdable, wallet string, v *models.StakingSummary, ttl time.Duration) error {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyStakingSummary(wallet), b, ttl).Err()
}

func DeleteStakingSummary(ctx context.Context, cmd redis.Cmdable, wallet string) error {
	return cmd.Del(ctx, dbKeyStakingSummary(wallet)).Err()
}

// MarkAccrualRun records a completed accrual day. The ledger's conditional
// insert is the real idempotency barrier; this marker only lets a repeat
// run skip the wallet scan entirely.
func MarkAccrualRun(ctx context.Context, cmd redis.Cmdable, day time.Time) error {
	return cmd.Set(ctx, dbKeyAccrualRun(day), time.Now().UTC().Format(time.RFC3339), 7*24*time.Hour).Err()
}

func AccrualAlreadyRan(ctx context.Context, cmd redis.Cmdable, day time.Time) (bool, error) {
	_, err := cmd.Get(ctx, dbKeyAccrualRun(day)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Content blobs are cached by CID. CIDs are content-addressed so the
// cache never goes stale; the TTL just bounds memory.
func GetContent(ctx context.Context, cmd redis.Cmdable, cid string) ([]byte, error) {
	return cmd.Get(ctx, dbKeyContent(cid)).Bytes()
}

func SaveContent(ctx context.Context, cmd redis.Cmdable, cid string, b []byte, ttl time.Duration) error {
	return cmd.Set(ctx, dbKeyContent(cid), b, ttl).Err()
}
