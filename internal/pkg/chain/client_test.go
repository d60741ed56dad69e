package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
)

func transferLog(tokenID int64) *types.Log {
	return &types.Log{
		Topics: []common.Hash{
			transferTopic,
			common.Hash{}, // from = zero address on mint
			common.BytesToHash(common.HexToAddress("0xabc0000000000000000000000000000000000123").Bytes()),
			common.BigToHash(big.NewInt(tokenID)),
		},
	}
}

func TestTokenIDFromReceipt(t *testing.T) {
	receipt := &types.Receipt{
		Logs: []*types.Log{
			{Topics: []common.Hash{common.HexToHash("0x01")}}, // unrelated event
			transferLog(1337),
		},
	}

	assert.Equal(t, int64(1337), tokenIDFromReceipt(receipt))
}

func TestTokenIDFromReceiptNoTransfer(t *testing.T) {
	receipt := &types.Receipt{Logs: []*types.Log{
		{Topics: []common.Hash{transferTopic}}, // ERC-20 shape, not indexed token id
	}}

	assert.Equal(t, int64(0), tokenIDFromReceipt(receipt))
}
