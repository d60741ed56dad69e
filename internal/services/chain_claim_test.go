package services

import (
	"context"
	"math/big"
	"testing"
	"time"

	"neftit/internal/interfaces"
	"neftit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChainClient struct {
	chain      string
	balance    *big.Int
	balanceErr error
	mintCalls  int
}

var _ interfaces.ChainClient = (*mockChainClient)(nil)

func (m *mockChainClient) Chain() string {
	return m.chain
}

func (m *mockChainClient) ContractAddress() string {
	return "0x00000000000000000000000000000000000c0ffe"
}

func (m *mockChainClient) Mint(_ context.Context, _ string, _ string) (*interfaces.MintResult, error) {
	m.mintCalls++
	return &interfaces.MintResult{TxHash: "0xdeadbeef", TokenID: 1}, nil
}

func (m *mockChainClient) Balance(_ context.Context, _ string) (*big.Int, error) {
	return m.balance, m.balanceErr
}

func ownedRecord(wallet string) *models.DistributionRecord {
	return &models.DistributionRecord{
		ID:            42,
		WalletAddress: wallet,
		EntryID:       9001,
		ProjectID:     "genesis",
		Rarity:        models.RarityCommon,
		DistributedAt: time.Now().UTC(),
	}
}

func TestValidateClaimTargetRejectsSecondChain(t *testing.T) {
	wallet := "0xabc0000000000000000000000000000000000001"
	existing := &models.ChainClaim{DistributionID: 42, WalletAddress: wallet, Chain: "polygon"}

	err := validateClaimTarget(ownedRecord(wallet), existing, wallet, "ethereum")
	require.Error(t, err)
	assert.ErrorContains(t, err, "already bound to polygon")
}

func TestValidateClaimTargetOwnership(t *testing.T) {
	wallet := "0xabc0000000000000000000000000000000000001"

	err := validateClaimTarget(ownedRecord(wallet), nil, "0xother00000000000000000000000000000000002", "ethereum")
	require.Error(t, err)
	assert.ErrorContains(t, err, "not owned")

	// address casing must not matter
	err = validateClaimTarget(ownedRecord(wallet), nil, "0xABC0000000000000000000000000000000000001", "ethereum")
	assert.NoError(t, err)
}

func TestValidateClaimTargetConsumedEntry(t *testing.T) {
	wallet := "0xabc0000000000000000000000000000000000001"

	burned := ownedRecord(wallet)
	now := time.Now().UTC()
	burned.BurnedAt = &now
	err := validateClaimTarget(burned, nil, wallet, "ethereum")
	require.Error(t, err)
	assert.ErrorContains(t, err, "already consumed")

	recovered := ownedRecord(wallet)
	recovered.Recovered = true
	err = validateClaimTarget(recovered, nil, wallet, "ethereum")
	require.Error(t, err)
	assert.ErrorContains(t, err, "already consumed")
}

func TestValidateClaimTargetAssignedChainRestriction(t *testing.T) {
	wallet := "0xabc0000000000000000000000000000000000001"
	assigned := "polygon"

	record := ownedRecord(wallet)
	record.AssignedChain = &assigned

	err := validateClaimTarget(record, nil, wallet, "ethereum")
	require.Error(t, err)
	assert.ErrorContains(t, err, "restricted to polygon")

	assert.NoError(t, validateClaimTarget(record, nil, wallet, "polygon"))
}

func TestValidateClaimTargetAccepts(t *testing.T) {
	wallet := "0xabc0000000000000000000000000000000000001"
	assert.NoError(t, validateClaimTarget(ownedRecord(wallet), nil, wallet, "ethereum"))
}

func TestCheckBalanceFloor(t *testing.T) {
	ctx := context.Background()
	wallet := "0xabc0000000000000000000000000000000000001"
	gwei := big.NewInt(1_000_000_000)

	client := &mockChainClient{chain: "ethereum", balance: new(big.Int).Mul(big.NewInt(5), gwei)}
	assert.NoError(t, checkBalanceFloor(ctx, client, wallet, 5))

	err := checkBalanceFloor(ctx, client, wallet, 6)
	require.Error(t, err)
	assert.ErrorContains(t, err, "insufficient wallet balance")

	// zero floor disables the check
	assert.NoError(t, checkBalanceFloor(ctx, &mockChainClient{chain: "ethereum"}, wallet, 0))

	// an RPC failure must not block the claim
	flaky := &mockChainClient{chain: "ethereum", balanceErr: context.DeadlineExceeded}
	assert.NoError(t, checkBalanceFloor(ctx, flaky, wallet, 5))
}
