// internal/blockchain/programs/computebudget/computebudget.go
package computebudget

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

const (
	SetComputeUnitLimit uint8 = 2
	SetComputeUnitPrice uint8 = 3
)

// Config задает необязательный приоритет транзакции. Нулевые поля не добавляют инструкций.
type Config struct {
	UnitLimit     uint32
	MicroLamports uint64
}

// Enabled сообщает, нужны ли инструкции бюджета вообще
func (c Config) Enabled() bool {
	return c.UnitLimit > 0 || c.MicroLamports > 0
}

// Instructions строит инструкции бюджета в порядке limit, price
func Instructions(c Config) ([]solana.Instruction, error) {
	var out []solana.Instruction
	if c.UnitLimit > 0 {
		ix, err := build(SetComputeUnitLimit, c.UnitLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit limit instruction: %w", err)
		}
		out = append(out, ix)
	}
	if c.MicroLamports > 0 {
		ix, err := build(SetComputeUnitPrice, c.MicroLamports)
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit price instruction: %w", err)
		}
		out = append(out, ix)
	}
	return out, nil
}

func build(tag uint8, value interface{}) (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, tag); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, value); err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, []*solana.AccountMeta{}, buf.Bytes()), nil
}
