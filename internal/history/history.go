// internal/history/history.go
package history

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/operation"
)

const flushInterval = 2 * time.Second

// Header is the first row of a history file.
var Header = []string{"timestamp", "wallet", "operation", "status", "category", "signature", "mint", "explorer", "message"}

// Journal appends every terminal operation outcome to a CSV file.
type Journal struct {
	csv    *logger.SafeCSVWriter
	now    func() time.Time
	logger *zap.Logger
}

func Open(path string, log *zap.Logger) (*Journal, error) {
	w, err := logger.NewSafeCSVWriter(path, Header, flushInterval, log)
	if err != nil {
		return nil, err
	}
	return &Journal{csv: w, now: time.Now, logger: log.Named("history")}, nil
}

// Record writes one outcome. Errors are logged and swallowed: history is best effort.
func (j *Journal) Record(owner solana.PublicKey, o operation.Outcome) {
	sig, mint := "", ""
	if o.HasSignature() {
		sig = o.Signature.String()
	}
	if !o.Mint.IsZero() {
		mint = o.Mint.String()
	}
	status := string(o.Status)
	if o.Simulated {
		status += " (simulated)"
	}

	record := []string{
		j.now().UTC().Format(time.RFC3339),
		owner.String(),
		string(o.Kind),
		status,
		string(o.Category),
		sig,
		mint,
		o.ExplorerURL,
		o.Message,
	}
	if err := j.csv.WriteRecord(record); err != nil {
		j.logger.Warn("Failed to record outcome", zap.Error(err))
	}
}

func (j *Journal) Close() error {
	return j.csv.Close()
}
