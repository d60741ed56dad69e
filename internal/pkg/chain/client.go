package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"neftit/internal/interfaces"
)

var ErrMintReverted = errors.New("mint transaction reverted")

const mintABI = `[{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"string","name":"uri","type":"string"}],"name":"mint","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"}]`

// EvmClient mints claim NFTs on a single EVM chain through a shared
// minter key.
type EvmClient struct {
	chain      string
	client     *ethclient.Client
	chainID    *big.Int
	contract   common.Address
	privateKey *ecdsa.PrivateKey
	minterABI  abi.ABI
}

var _ interfaces.ChainClient = (*EvmClient)(nil)

func NewEvmClient(chain string, rpcURL string, contractAddress string, privateKeyHex string) (*EvmClient, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, err
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, err
	}

	chainID, err := client.NetworkID(context.Background())
	if err != nil {
		return nil, err
	}

	parsed, err := abi.JSON(strings.NewReader(mintABI))
	if err != nil {
		return nil, err
	}

	return &EvmClient{
		chain:      chain,
		client:     client,
		chainID:    chainID,
		contract:   common.HexToAddress(contractAddress),
		privateKey: privateKey,
		minterABI:  parsed,
	}, nil
}

func (c *EvmClient) Chain() string {
	return c.chain
}

func (c *EvmClient) ContractAddress() string {
	return c.contract.Hex()
}

func (c *EvmClient) Balance(ctx context.Context, address string) (*big.Int, error) {
	return c.client.BalanceAt(ctx, common.HexToAddress(address), nil)
}

func (c *EvmClient) Mint(ctx context.Context, recipient string, metadataCID string) (*interfaces.MintResult, error) {
	data, err := c.minterABI.Pack("mint", common.HexToAddress(recipient), "ipfs://"+metadataCID)
	if err != nil {
		return nil, err
	}

	fromAddress := crypto.PubkeyToAddress(c.privateKey.PublicKey)

	nonce, err := c.client.PendingNonceAt(ctx, fromAddress)
	if err != nil {
		return nil, err
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: fromAddress,
		To:   &c.contract,
		Data: data,
	})
	if err != nil {
		return nil, err
	}

	tx := types.NewTransaction(nonce, c.contract, big.NewInt(0), gasLimit, gasPrice, data)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(c.chainID), c.privateKey)
	if err != nil {
		return nil, err
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, err
	}

	receipt, err := bind.WaitMined(ctx, c.client, signedTx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, ErrMintReverted
	}

	return &interfaces.MintResult{
		TxHash:  signedTx.Hash().Hex(),
		TokenID: tokenIDFromReceipt(receipt),
	}, nil
}

// transferTopic is keccak256("Transfer(address,address,uint256)").
var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// tokenIDFromReceipt pulls the minted token id out of the ERC-721
// Transfer event emitted by the contract.
func tokenIDFromReceipt(receipt *types.Receipt) int64 {
	for _, l := range receipt.Logs {
		if len(l.Topics) == 4 && l.Topics[0] == transferTopic {
			return new(big.Int).SetBytes(l.Topics[3].Bytes()).Int64()
		}
	}
	return 0
}
