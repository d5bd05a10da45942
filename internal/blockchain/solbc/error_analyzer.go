package solbc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

// FailureKind is a coarse classification of a ledger-side failure.
type FailureKind string

const (
	FailureUnknown           FailureKind = "unknown"
	FailureInsufficientFunds FailureKind = "insufficient_funds"
	FailureBlockhashNotFound FailureKind = "blockhash_not_found"
	FailureSimulation        FailureKind = "simulation_failed"
	FailureRateLimited       FailureKind = "rate_limited"
	FailureTransport         FailureKind = "transport"
)

// Analysis holds what could be extracted from an RPC error.
type Analysis struct {
	Kind             FailureKind
	Code             int
	Message          string
	Logs             []string
	InstructionError interface{}
}

// ErrorAnalyzer provides methods to analyze Solana transaction errors
type ErrorAnalyzer struct {
	logger *zap.Logger
}

// NewErrorAnalyzer creates a new ErrorAnalyzer instance
func NewErrorAnalyzer(logger *zap.Logger) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		logger: logger.Named("error-analyzer"),
	}
}

// Analyze inspects err, unwrapping a jsonrpc.RPCError when present.
func (ea *ErrorAnalyzer) Analyze(err error) Analysis {
	if err == nil {
		return Analysis{Kind: FailureUnknown}
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return Analysis{Kind: kindFromText(err.Error(), nil), Message: err.Error()}
	}

	result := Analysis{
		Code:    rpcErr.Code,
		Message: rpcErr.Message,
	}

	if dataMap, ok := rpcErr.Data.(map[string]interface{}); ok {
		if logs, ok := dataMap["logs"].([]interface{}); ok {
			for _, entry := range logs {
				if s, ok := entry.(string); ok {
					result.Logs = append(result.Logs, s)
				}
			}
		}
		if instrErr, ok := dataMap["err"]; ok {
			result.InstructionError = instrErr
		}
	}

	result.Kind = kindFromText(rpcErr.Message, result.Logs)
	if result.Kind == FailureUnknown && result.InstructionError != nil {
		result.Kind = kindFromText(fmt.Sprint(result.InstructionError), nil)
	}
	if result.Kind == FailureUnknown && strings.Contains(rpcErr.Message, "Transaction simulation failed") {
		result.Kind = FailureSimulation
	}

	if result.Kind != FailureUnknown {
		ea.logger.Debug("RPC error analyzed",
			zap.String("kind", string(result.Kind)),
			zap.Int("code", result.Code),
			zap.Int("log_lines", len(result.Logs)))
	}
	return result
}

func kindFromText(msg string, logs []string) FailureKind {
	text := strings.ToLower(msg + "\n" + strings.Join(logs, "\n"))
	switch {
	case strings.Contains(text, "insufficient funds"),
		strings.Contains(text, "insufficient lamports"),
		strings.Contains(text, "insufficientfunds"),
		strings.Contains(text, "insufficient balance"),
		strings.Contains(text, "custom program error: 0x1\n"),
		strings.HasSuffix(text, "custom program error: 0x1"):
		return FailureInsufficientFunds
	case strings.Contains(text, "blockhash not found"),
		strings.Contains(text, "blockhashnotfound"),
		strings.Contains(text, "block height exceeded"):
		return FailureBlockhashNotFound
	case strings.Contains(text, "429"),
		strings.Contains(text, "too many requests"),
		strings.Contains(text, "rate limit"):
		return FailureRateLimited
	case strings.Contains(text, "transaction simulation failed"):
		return FailureSimulation
	case strings.Contains(text, "connection reset"),
		strings.Contains(text, "connection refused"),
		strings.Contains(text, "no such host"),
		strings.Contains(text, "timeout"),
		strings.Contains(text, "eof"):
		return FailureTransport
	}
	return FailureUnknown
}

// FormatErrorAnalysis formats the error analysis for logging or display
func (ea *ErrorAnalyzer) FormatErrorAnalysis(analysis Analysis) string {
	jsonBytes, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error formatting analysis: %v", err)
	}
	return string(jsonBytes)
}
