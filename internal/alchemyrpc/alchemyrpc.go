package alchemyrpc

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"go.uber.org/ratelimit"

	"github.com/dwarvesf/wallet-tracker/internal/model"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
)

const (
	defaultTimeout           = 30 * time.Second
	defaultMaxRetries        = 3
	defaultRetryDelay        = 1 * time.Second
	defaultMaxDelay          = 10 * time.Second
	defaultBackoffMult       = 2.0
	defaultRequestsPerSecond = 10
)

type alchemyRPC struct {
	logger      *logger.Logger
	httpClient  *http.Client
	limiter     ratelimit.Limiter
	timeout     time.Duration
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	maxRetries  int
	rps         int

	connMu sync.Mutex
	conns  map[string]*rpc.Client

	cacheMu    sync.Mutex
	blockTimes map[string]int64
}

type Option func(*alchemyRPC)

func WithTimeout(timeout time.Duration) Option {
	return func(c *alchemyRPC) {
		c.timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

func WithMaxRetries(maxRetries int) Option {
	return func(c *alchemyRPC) {
		c.maxRetries = maxRetries
	}
}

func WithRetryDelay(delay time.Duration) Option {
	return func(c *alchemyRPC) {
		c.retryDelay = delay
	}
}

func WithMaxDelay(maxDelay time.Duration) Option {
	return func(c *alchemyRPC) {
		c.maxDelay = maxDelay
	}
}

func WithRequestsPerSecond(rps int) Option {
	return func(c *alchemyRPC) {
		c.rps = rps
	}
}

func New(logger *logger.Logger, opts ...Option) IAlchemyRPC {
	c := &alchemyRPC{
		logger:      logger,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		timeout:     defaultTimeout,
		retryDelay:  defaultRetryDelay,
		maxDelay:    defaultMaxDelay,
		backoffMult: defaultBackoffMult,
		maxRetries:  defaultMaxRetries,
		rps:         defaultRequestsPerSecond,
		conns:       make(map[string]*rpc.Client),
		blockTimes:  make(map[string]int64),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.limiter = ratelimit.New(c.rps)

	return c
}

func (c *alchemyRPC) FetchPage(ctx context.Context, wallet string, chain model.Chain, cursor string, pageSize int) (*TransfersPage, error) {
	if wallet == "" {
		return nil, errors.New("wallet address is empty")
	}
	if pageSize <= 0 {
		return nil, errors.New("page size must be positive")
	}
	if pageSize > chain.MaxPageSize {
		pageSize = chain.MaxPageSize
	}

	params := assetTransfersParams{
		FromBlock:         "0x0",
		ToBlock:           "latest",
		ToAddress:         wallet,
		ContractAddresses: chain.ContractAddresses(),
		Category:          []string{"erc20"},
		MaxCount:          hexutil.EncodeUint64(uint64(pageSize)),
		Order:             "desc",
		WithMetadata:      true,
		PageKey:           cursor,
	}

	var result assetTransfersResult
	if err := c.call(ctx, chain, "FetchPage", &result, "alchemy_getAssetTransfers", params); err != nil {
		return nil, err
	}

	for i := range result.Transfers {
		transfer := &result.Transfers[i]
		if transfer.Metadata != nil && transfer.Metadata.BlockTimestamp != "" {
			continue
		}

		blockTime, err := c.blockTimestamp(ctx, chain, transfer.BlockNum)
		if err != nil {
			// leave the timestamp empty; the normalizer drops and counts
			// the record as malformed
			c.logger.Error("[FetchPage][blockTimestamp]", map[string]string{
				"chain":    chain.ID,
				"blockNum": transfer.BlockNum,
				"error":    err.Error(),
			})
			continue
		}
		transfer.Metadata = &TransferMetadata{
			BlockTimestamp: time.Unix(blockTime, 0).UTC().Format(time.RFC3339),
		}
	}

	return &TransfersPage{
		Transfers:  result.Transfers,
		NextCursor: result.PageKey,
	}, nil
}

// blockTimestamp resolves a block's unix timestamp, memoizing per
// (chain, block) so a page of transfers from the same block costs one call.
func (c *alchemyRPC) blockTimestamp(ctx context.Context, chain model.Chain, blockNum string) (int64, error) {
	cacheKey := chain.ID + ":" + blockNum

	c.cacheMu.Lock()
	if cached, ok := c.blockTimes[cacheKey]; ok {
		c.cacheMu.Unlock()
		return cached, nil
	}
	c.cacheMu.Unlock()

	var header *blockHeader
	if err := c.call(ctx, chain, "blockTimestamp", &header, "eth_getBlockByNumber", blockNum, false); err != nil {
		return 0, err
	}
	if header == nil {
		return 0, errors.Errorf("block %s not found", blockNum)
	}

	timestamp, err := hexutil.DecodeUint64(header.Timestamp)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timestamp for block %s", blockNum)
	}

	c.cacheMu.Lock()
	c.blockTimes[cacheKey] = int64(timestamp)
	c.cacheMu.Unlock()

	return int64(timestamp), nil
}

// call runs one JSON-RPC request with the retry budget. Transport failures
// and throttling are retried with exponential backoff; JSON-RPC errors other
// than throttling are returned as-is since the node has already rejected the
// call.
func (c *alchemyRPC) call(ctx context.Context, chain model.Chain, tag string, result interface{}, method string, args ...interface{}) error {
	conn, err := c.conn(ctx, chain)
	if err != nil {
		return err
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		c.limiter.Take()

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := conn.CallContext(callCtx, result, method, args...)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !isRetryable(err) {
			c.logger.Error("["+tag+"][CallContext] rpc rejected call", map[string]string{
				"chain":  chain.ID,
				"method": method,
				"error":  err.Error(),
			})
			return errors.Wrapf(err, "%s failed on %s", method, chain.ID)
		}

		wait := delay
		if IsRateLimited(err) {
			// give throttling more headroom than plain transport failures
			wait = delay * 2
		}

		c.logger.Error("["+tag+"][CallContext]", map[string]string{
			"chain":   chain.ID,
			"method":  method,
			"error":   err.Error(),
			"attempt": strconv.Itoa(attempt),
			"wait":    wait.String(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * c.backoffMult)
		if delay > c.maxDelay {
			delay = c.maxDelay
		}
	}

	return errors.Wrapf(lastErr, "%s failed on %s after %d attempts", method, chain.ID, c.maxRetries)
}

func (c *alchemyRPC) conn(ctx context.Context, chain model.Chain) (*rpc.Client, error) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if conn, ok := c.conns[chain.ID]; ok {
		return conn, nil
	}

	conn, err := rpc.DialOptions(ctx, chain.RPCURL, rpc.WithHTTPClient(c.httpClient))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s rpc", chain.ID)
	}
	c.conns[chain.ID] = conn

	return conn, nil
}

// IsRateLimited reports whether err is the remote API signalling throttling.
func IsRateLimited(err error) bool {
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode() == http.StatusTooManyRequests
	}

	return false
}

func isRetryable(err error) bool {
	if IsRateLimited(err) {
		return true
	}

	var rpcErr rpc.Error
	return !errors.As(err, &rpcErr)
}
