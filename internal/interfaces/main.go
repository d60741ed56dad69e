package interfaces

import (
	"context"
	"math/big"

	"github.com/go-redis/redis_rate/v10"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// MintResult is what a confirmed mint transaction yields.
type MintResult struct {
	TxHash  string `json:"tx_hash"`
	TokenID int64  `json:"token_id"`
}

// ChainClient is the blockchain collaborator. Mint blocks until the
// transaction is confirmed or ctx expires; implementations must not
// return a result without a confirmed receipt.
type ChainClient interface {
	Chain() string
	ContractAddress() string
	Mint(ctx context.Context, recipient string, metadataCID string) (*MintResult, error)
	Balance(ctx context.Context, address string) (*big.Int, error)
}

// ContentResolver fetches bytes for an opaque content identifier.
type ContentResolver interface {
	Resolve(ctx context.Context, cid string) ([]byte, error)
}
