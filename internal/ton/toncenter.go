package ton

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/time/rate"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// Default client-side rate limiting for public toncenter endpoints.
const (
	defaultRequestsPerSecond = 5
	defaultBurst             = 10
)

// HTTPClient is a toncenter JSON-RPC client implementing Client. All
// calls are rate limited client-side so a burst of UI queries cannot
// trip the endpoint's limits.
type HTTPClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	idCounter  atomic.Uint64
}

// Compile-time interface check
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a toncenter client for the given endpoint.
// The API key may be empty for unauthenticated access.
func NewHTTPClient(url, apiKey string) *HTTPClient {
	return &HTTPClient{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
	}
}

// request represents a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      uint64 `json:"id"`
}

// response represents a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a JSON-RPC call against the toncenter endpoint.
func (c *HTTPClient) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.idCounter.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.ErrNetworkUnavailable, "calling %s", method)
	}
	// Body.Close error is intentionally ignored as it only fails if the
	// connection is already broken, and there's no recovery action.
	defer func() { _ = httpResp.Body.Close() }()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.ErrNetworkUnavailable, "reading %s response", method)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, walleterr.WithDetails(walleterr.ErrNetworkUnavailable,
			map[string]string{"status": strconv.Itoa(httpResp.StatusCode), "method": method})
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, walleterr.Wrap(walleterr.ErrNetworkUnavailable, "decoding %s response", method)
	}
	if resp.Error != nil {
		return nil, walleterr.Wrap(resp.Error, "%s failed", method)
	}

	return resp.Result, nil
}

// GetBalance returns the account balance in nanotons.
func (c *HTTPClient) GetBalance(ctx context.Context, addr Address) (*big.Int, error) {
	result, err := c.call(ctx, "getAddressBalance", map[string]string{
		"address": addr.String(),
	})
	if err != nil {
		return nil, err
	}

	var balanceStr string
	if err := json.Unmarshal(result, &balanceStr); err != nil {
		return nil, walleterr.Wrap(err, "decoding balance")
	}

	balance, ok := new(big.Int).SetString(balanceStr, 10)
	if !ok {
		return nil, walleterr.WithDetails(walleterr.ErrNetworkUnavailable,
			map[string]string{"balance": balanceStr})
	}
	return balance, nil
}

// runGetMethodResult is the shape toncenter returns for runGetMethod.
type runGetMethodResult struct {
	ExitCode int                 `json:"exit_code"`
	Stack    [][]json.RawMessage `json:"stack"`
}

// GetSeqno returns the wallet's current sequence number. A contract
// that is not deployed yet reports zero.
func (c *HTTPClient) GetSeqno(ctx context.Context, addr Address) (uint32, error) {
	result, err := c.call(ctx, "runGetMethod", map[string]any{
		"address": addr.String(),
		"method":  "seqno",
		"stack":   []any{},
	})
	if err != nil {
		return 0, walleterr.Wrap(walleterr.ErrSeqnoUnavailable, "running seqno get-method")
	}

	var out runGetMethodResult
	if err := json.Unmarshal(result, &out); err != nil {
		return 0, walleterr.Wrap(walleterr.ErrSeqnoUnavailable, "decoding seqno result")
	}

	// Uninitialized accounts have no seqno get-method; their first
	// message uses sequence number zero.
	if out.ExitCode != 0 {
		return 0, nil
	}
	if len(out.Stack) == 0 || len(out.Stack[0]) < 2 {
		return 0, walleterr.ErrSeqnoUnavailable
	}

	var hexValue string
	if err := json.Unmarshal(out.Stack[0][1], &hexValue); err != nil {
		return 0, walleterr.Wrap(walleterr.ErrSeqnoUnavailable, "decoding seqno stack value")
	}

	seqno, err := strconv.ParseUint(strings.TrimPrefix(hexValue, "0x"), 16, 32)
	if err != nil {
		return 0, walleterr.Wrap(walleterr.ErrSeqnoUnavailable, "parsing seqno %q", hexValue)
	}
	return uint32(seqno), nil
}

// dnsResolveResult is the shape toncenter returns for dns.resolve.
type dnsResolveResult struct {
	Entries []struct {
		Category string `json:"category"`
		Entry    struct {
			SmcAddress struct {
				AccountAddress string `json:"account_address"`
			} `json:"smc_address"`
		} `json:"entry"`
	} `json:"entries"`
}

// ResolveName resolves a TON DNS name to its wallet address.
func (c *HTTPClient) ResolveName(ctx context.Context, name string) (Address, error) {
	result, err := c.call(ctx, "dns.resolve", map[string]string{
		"domain":   name,
		"category": "wallet",
	})
	if err != nil {
		return Address{}, walleterr.Wrap(walleterr.ErrDestinationUnresolved, "resolving %s", name)
	}

	var out dnsResolveResult
	if err := json.Unmarshal(result, &out); err != nil {
		return Address{}, walleterr.Wrap(walleterr.ErrDestinationUnresolved, "decoding resolution for %s", name)
	}

	for _, entry := range out.Entries {
		if entry.Entry.SmcAddress.AccountAddress == "" {
			continue
		}
		addr, err := ParseAddress(entry.Entry.SmcAddress.AccountAddress)
		if err != nil {
			return Address{}, walleterr.Wrap(walleterr.ErrDestinationUnresolved,
				"parsing resolved address for %s", name)
		}
		return addr, nil
	}

	return Address{}, walleterr.WithDetails(walleterr.ErrDestinationUnresolved,
		map[string]string{"name": name})
}
