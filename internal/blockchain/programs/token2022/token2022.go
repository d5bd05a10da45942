// internal/blockchain/programs/token2022/token2022.go
package token2022

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

// Token-2022 instruction tags used here.
const (
	InitializeMint            uint8 = 0
	MintTo                    uint8 = 7
	MetadataPointerExtension  uint8 = 39
	metadataPointerInitialize uint8 = 0

	ataCreateIdempotent uint8 = 1
)

// Account layout sizes.
const (
	// base mint padded to the account size, plus the account-type byte
	mintBaseWithExtensions = 165 + 1
	tlvHeaderLen           = 2 + 2
	metadataPointerLen     = 32 + 32

	// MintLenWithMetadataPointer is getMintLen([MetadataPointer]).
	MintLenWithMetadataPointer = mintBaseWithExtensions + tlvHeaderLen + metadataPointerLen
)

// initializeMetadataDiscriminator is the spl-token-metadata-interface "initialize" tag.
var initializeMetadataDiscriminator = func() [8]byte {
	sum := sha256.Sum256([]byte("spl_token_metadata_interface:initialize_account"))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}()

// Metadata is the on-chain TokenMetadata record stored in the mint itself.
type Metadata struct {
	UpdateAuthority solana.PublicKey
	Mint            solana.PublicKey
	Name            string
	Symbol          string
	URI             string
	Additional      [][2]string
}

// PackedLen is the borsh-packed size of the record.
func (m Metadata) PackedLen() int {
	n := 32 + 32 + 4 + len(m.Name) + 4 + len(m.Symbol) + 4 + len(m.URI) + 4
	for _, kv := range m.Additional {
		n += 4 + len(kv[0]) + 4 + len(kv[1])
	}
	return n
}

// TLVLen is the space the record occupies as a TLV extension entry.
func (m Metadata) TLVLen() int {
	return tlvHeaderLen + m.PackedLen()
}

type encoder struct {
	buf *bytes.Buffer
	enc *bin.Encoder
	err error
}

func newEncoder() *encoder {
	buf := new(bytes.Buffer)
	return &encoder{buf: buf, enc: bin.NewBinEncoder(buf)}
}

func (e *encoder) u8(v uint8) {
	if e.err == nil {
		e.err = e.enc.WriteUint8(v)
	}
}

func (e *encoder) u64(v uint64) {
	if e.err == nil {
		e.err = e.enc.WriteUint64(v, binary.LittleEndian)
	}
}

func (e *encoder) raw(b []byte) {
	if e.err == nil {
		e.err = e.enc.WriteBytes(b, false)
	}
}

func (e *encoder) str(s string) {
	if e.err == nil {
		e.err = e.enc.WriteUint32(uint32(len(s)), binary.LittleEndian)
	}
	e.raw([]byte(s))
}

func (e *encoder) bytes() ([]byte, error) {
	if e.err != nil {
		return nil, fmt.Errorf("encode instruction: %w", e.err)
	}
	return e.buf.Bytes(), nil
}

// NewInitializeMetadataPointerInstruction points the mint's metadata at metadata.
func NewInitializeMetadataPointerInstruction(mint, authority, metadata solana.PublicKey) (solana.Instruction, error) {
	e := newEncoder()
	e.u8(MetadataPointerExtension)
	e.u8(metadataPointerInitialize)
	e.raw(authority.Bytes())
	e.raw(metadata.Bytes())
	data, err := e.bytes()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(mint).WRITE(),
	}, data), nil
}

// NewInitializeMintInstruction initialises mint. A nil freezeAuthority leaves the
// mint without one.
func NewInitializeMintInstruction(mint solana.PublicKey, decimals uint8, mintAuthority solana.PublicKey, freezeAuthority *solana.PublicKey) (solana.Instruction, error) {
	e := newEncoder()
	e.u8(InitializeMint)
	e.u8(decimals)
	e.raw(mintAuthority.Bytes())
	if freezeAuthority != nil {
		e.u8(1)
		e.raw(freezeAuthority.Bytes())
	} else {
		e.u8(0)
		e.raw(make([]byte, 32))
	}
	data, err := e.bytes()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(mint).WRITE(),
		solana.Meta(solana.SysVarRentPubkey),
	}, data), nil
}

// NewInitializeMetadataInstruction writes the metadata record into the mint account.
func NewInitializeMetadataInstruction(md Metadata, mintAuthority solana.PublicKey) (solana.Instruction, error) {
	e := newEncoder()
	e.raw(initializeMetadataDiscriminator[:])
	e.str(md.Name)
	e.str(md.Symbol)
	e.str(md.URI)
	data, err := e.bytes()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(md.Mint).WRITE(),
		solana.Meta(md.UpdateAuthority),
		solana.Meta(md.Mint),
		solana.Meta(mintAuthority).SIGNER(),
	}, data), nil
}

// NewMintToInstruction mints amount base units into destination.
func NewMintToInstruction(mint, destination, authority solana.PublicKey, amount uint64) (solana.Instruction, error) {
	e := newEncoder()
	e.u8(MintTo)
	e.u64(amount)
	data, err := e.bytes()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(mint).WRITE(),
		solana.Meta(destination).WRITE(),
		solana.Meta(authority).SIGNER(),
	}, data), nil
}

// FindAssociatedTokenAddress derives owner's Token-2022 associated token account.
func FindAssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		owner[:],
		ProgramID[:],
		mint[:],
	}, solana.SPLAssociatedTokenAccountProgramID)
	return addr, err
}

// NewCreateAssociatedTokenAccountIdempotentInstruction creates owner's ATA for mint if missing.
func NewCreateAssociatedTokenAccountIdempotentInstruction(payer, owner, mint solana.PublicKey) (solana.Instruction, solana.PublicKey, error) {
	ata, err := FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	ix := solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, solana.AccountMetaSlice{
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(ata).WRITE(),
		solana.Meta(owner),
		solana.Meta(mint),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(ProgramID),
	}, []byte{ataCreateIdempotent})
	return ix, ata, nil
}
