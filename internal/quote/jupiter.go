// internal/quote/jupiter.go
package quote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultAggregatorURL is the public Jupiter v6 API.
const DefaultAggregatorURL = "https://quote-api.jup.ag/v6"

const maxResponseBytes = 4 << 20

// SwapPayload is the aggregator-compiled swap transaction, still unsigned.
type SwapPayload struct {
	Transaction          *solana.Transaction
	LastValidBlockHeight uint64
}

// JupiterClient talks to the Jupiter HTTP API. Every failure is reported as
// ErrAggregatorUnavailable.
type JupiterClient struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewJupiterClient creates a client; rps <= 0 disables client-side throttling.
func NewJupiterClient(base string, rps float64, httpClient *http.Client, logger *zap.Logger) *JupiterClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &JupiterClient{
		base:    strings.TrimRight(base, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.Named("jupiter"),
	}
}

type quoteResponse struct {
	InAmount             string      `json:"inAmount"`
	OutAmount            string      `json:"outAmount"`
	OtherAmountThreshold string      `json:"otherAmountThreshold"`
	SlippageBps          int         `json:"slippageBps"`
	PriceImpactPct       json.Number `json:"priceImpactPct"`
}

func unavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAggregatorUnavailable, fmt.Sprintf(format, args...))
}

func (j *JupiterClient) do(req *http.Request) ([]byte, error) {
	if err := j.limiter.Wait(req.Context()); err != nil {
		return nil, unavailable("rate limiter: %v", err)
	}
	resp, err := j.http.Do(req)
	if err != nil {
		return nil, unavailable("%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, unavailable("read body: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unavailable("status %d", resp.StatusCode)
	}
	return body, nil
}

// GetQuote requests a route for amount minor units of in.
func (j *JupiterClient) GetQuote(ctx context.Context, in, out solana.PublicKey, amount uint64, slippageBps uint16) (Quote, error) {
	q := url.Values{}
	q.Set("inputMint", in.String())
	q.Set("outputMint", out.String())
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("slippageBps", strconv.Itoa(int(slippageBps)))
	q.Set("onlyDirectRoutes", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.base+"/quote?"+q.Encode(), nil)
	if err != nil {
		return Quote{}, unavailable("%v", err)
	}
	body, err := j.do(req)
	if err != nil {
		return Quote{}, err
	}

	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Quote{}, unavailable("decode quote: %v", err)
	}
	outAmount, err := strconv.ParseUint(resp.OutAmount, 10, 64)
	if err != nil || outAmount == 0 {
		return Quote{}, unavailable("missing outAmount")
	}
	minOutAmount, err := strconv.ParseUint(resp.OtherAmountThreshold, 10, 64)
	if err != nil {
		minOutAmount = minOut(outAmount, slippageBps)
	}
	inAmount, err := strconv.ParseUint(resp.InAmount, 10, 64)
	if err != nil {
		inAmount = amount
	}
	impact, _ := resp.PriceImpactPct.Float64()

	j.logger.Debug("Quote received",
		zap.String("in", in.String()),
		zap.String("out", out.String()),
		zap.Uint64("in_amount", inAmount),
		zap.Uint64("out_amount", outAmount))

	return Quote{
		InputMint:      in,
		OutputMint:     out,
		InAmount:       inAmount,
		OutAmount:      outAmount,
		MinOutAmount:   minOutAmount,
		SlippageBps:    slippageBps,
		PriceImpactPct: impact,
		Source:         SourceRemote,
		Raw:            json.RawMessage(body),
		CreatedAt:      time.Now(),
	}, nil
}

// GetSwapTransaction asks the aggregator to compile the swap for user.
func (j *JupiterClient) GetSwapTransaction(ctx context.Context, q Quote, user solana.PublicKey) (SwapPayload, error) {
	if !q.IsRemote() {
		return SwapPayload{}, unavailable("quote is not from the aggregator")
	}
	payload, err := json.Marshal(map[string]interface{}{
		"quoteResponse":    q.Raw,
		"userPublicKey":    user.String(),
		"wrapAndUnwrapSol": true,
	})
	if err != nil {
		return SwapPayload{}, unavailable("encode swap request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.base+"/swap", bytes.NewReader(payload))
	if err != nil {
		return SwapPayload{}, unavailable("%v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := j.do(req)
	if err != nil {
		return SwapPayload{}, err
	}

	var resp struct {
		SwapTransaction      string `json:"swapTransaction"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return SwapPayload{}, unavailable("decode swap: %v", err)
	}
	if resp.SwapTransaction == "" {
		return SwapPayload{}, unavailable("empty swapTransaction")
	}
	raw, err := base64.StdEncoding.DecodeString(resp.SwapTransaction)
	if err != nil {
		return SwapPayload{}, unavailable("decode tx: %v", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return SwapPayload{}, unavailable("unmarshal tx: %v", err)
	}
	return SwapPayload{Transaction: tx, LastValidBlockHeight: resp.LastValidBlockHeight}, nil
}
