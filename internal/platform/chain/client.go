// Package chain submits mint transactions through an EVM JSON-RPC endpoint.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// MintRequest describes one token transfer to a claim address.
type MintRequest struct {
	Contract string
	// TokenID is a decimal string, per the catalog.
	TokenID string
	To      string
	Amount  int64
}

// Minter submits mint transactions from the custodial minting wallet.
type Minter interface {
	Mint(ctx context.Context, req MintRequest) (txHash string, err error)
	Address() string
	Balance(ctx context.Context) (*big.Int, error)
}

const erc1155MintABI = `[{"name":"mint","type":"function","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]}]`

var mintABI = mustParseABI(erc1155MintABI)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Client is a Minter backed by a single chain endpoint.
type Client struct {
	chainName string
	rpc       *ethclient.Client
	key       *ecdsa.PrivateKey
	from      common.Address
	chainID   *big.Int
}

// Dial connects to the endpoint and loads the minting key.
func Dial(ctx context.Context, chainName, endpoint, minterKeyHex string) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("empty rpc endpoint for chain %s", chainName)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(minterKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse minter key: %w", err)
	}
	rpc, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", chainName, err)
	}
	chainID, err := rpc.ChainID(ctx)
	if err != nil {
		rpc.Close()
		return nil, fmt.Errorf("chain id for %s: %w", chainName, err)
	}
	return &Client{
		chainName: chainName,
		rpc:       rpc,
		key:       key,
		from:      crypto.PubkeyToAddress(key.PublicKey),
		chainID:   chainID,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// Address returns the minting wallet address.
func (c *Client) Address() string {
	return c.from.Hex()
}

// Balance returns the minting wallet balance at the latest block.
func (c *Client) Balance(ctx context.Context) (*big.Int, error) {
	return c.rpc.BalanceAt(ctx, c.from, nil)
}

// Mint signs and broadcasts mint(to, id, amount, "") and returns the tx hash.
// It does not wait for the transaction to be mined.
func (c *Client) Mint(ctx context.Context, req MintRequest) (string, error) {
	tokenID, ok := new(big.Int).SetString(req.TokenID, 10)
	if !ok {
		return "", fmt.Errorf("invalid token id %q", req.TokenID)
	}
	if !common.IsHexAddress(req.To) {
		return "", fmt.Errorf("invalid destination address %q", req.To)
	}
	to := common.HexToAddress(req.To)
	contract := common.HexToAddress(req.Contract)

	data, err := mintABI.Pack("mint", to, tokenID, big.NewInt(req.Amount), []byte{})
	if err != nil {
		return "", fmt.Errorf("pack mint call: %w", err)
	}

	nonce, err := c.rpc.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := c.rpc.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("suggest gas price: %w", err)
	}
	gasLimit, err := c.rpc.EstimateGas(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &contract,
		Data: data,
	})
	if err != nil {
		return "", fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &contract,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", fmt.Errorf("sign tx: %w", err)
	}
	if err := c.rpc.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send tx: %w", err)
	}
	return signed.Hash().Hex(), nil
}
