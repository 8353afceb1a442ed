package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mr-tron/base58"
)

// TokenProgramID is the SPL token program that owns all fungible token accounts.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

var (
	// ErrInvalidAddress indicates the supplied wallet address is not a valid
	// base58-encoded 32-byte public key.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrLedgerUnavailable indicates the RPC node could not answer the query.
	// Callers must treat this as "could not verify", never as a zero balance.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
)

// BalanceChecker is the read-only ledger query contract consumed by the
// verification engine.
type BalanceChecker interface {
	HoldsMinimumBalance(ctx context.Context, owner, mint string, min float64) (bool, error)
}

// Client queries token-account balances on a Solana RPC node. It holds no
// state beyond the shared HTTP client and is safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	nextID   atomic.Uint64
}

// NewClient builds a ledger query client against the given RPC endpoint. The
// timeout is a transport-level backstop; per-call deadlines come from the
// caller's context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// ValidateAddress checks that addr decodes to a 32-byte public key.
func ValidateAddress(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 32 {
		return ErrInvalidAddress
	}
	return nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type tokenAccountsResponse struct {
	Error  *rpcError `json:"error"`
	Result struct {
		Value []struct {
			Account struct {
				Data struct {
					Parsed struct {
						Info struct {
							Mint        string `json:"mint"`
							TokenAmount struct {
								UIAmount float64 `json:"uiAmount"`
							} `json:"tokenAmount"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"data"`
			} `json:"account"`
		} `json:"value"`
	} `json:"result"`
}

// HoldsMinimumBalance reports whether any token account owned by owner holds
// at least min units of mint. The check is existential: the first qualifying
// account short-circuits and balances are never summed across accounts.
func (c *Client) HoldsMinimumBalance(ctx context.Context, owner, mint string, min float64) (bool, error) {
	if err := ValidateAddress(owner); err != nil {
		return false, err
	}

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  "getTokenAccountsByOwner",
		Params: []any{
			owner,
			map[string]string{"programId": TokenProgramID},
			map[string]string{"encoding": "jsonParsed"},
		},
	})
	if err != nil {
		return false, fmt.Errorf("%w: encode request: %v", ErrLedgerUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("%w: build request: %v", ErrLedgerUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: rpc node returned status %d", ErrLedgerUnavailable, resp.StatusCode)
	}

	var decoded tokenAccountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, fmt.Errorf("%w: decode response: %v", ErrLedgerUnavailable, err)
	}
	if decoded.Error != nil {
		return false, fmt.Errorf("%w: rpc error %d: %s", ErrLedgerUnavailable, decoded.Error.Code, decoded.Error.Message)
	}

	for _, account := range decoded.Result.Value {
		info := account.Account.Data.Parsed.Info
		if info.Mint == mint && info.TokenAmount.UIAmount >= min {
			return true, nil
		}
	}

	return false, nil
}
