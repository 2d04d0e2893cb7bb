package circuits

import (
	"github.com/consensys/gnark/frontend"
	stdhash "github.com/consensys/gnark/std/hash"

	"github.com/yourorg/cswzk/internal/mimc"
	"github.com/yourorg/cswzk/pkg/config"
	"github.com/yourorg/cswzk/pkg/csw"
	"github.com/yourorg/cswzk/pkg/merkle"
)

type WcertVars struct {
	LedgerID     frontend.Variable
	EpochID      frontend.Variable
	BtRoot       frontend.Variable
	Quality      frontend.Variable
	McbScTxsCom  frontend.Variable
	FtMinFee     frontend.Variable
	BtrMinFee    frontend.Variable
	CustomFields []frontend.Variable
}

type UtxoVars struct {
	SpendingPubKey [csw.SimulatedFieldByteSize * 8]frontend.Variable
	Amount         frontend.Variable
	Nonce          frontend.Variable
	CustomHash     [csw.FieldSize * 8]frontend.Variable
	SecretKey      [csw.SimulatedScalarFieldModulusBits]frontend.Variable
}

type FtVars struct {
	Amount              frontend.Variable
	ReceiverPubKey      [csw.SimulatedFieldByteSize * 8]frontend.Variable
	PaybackAddrDataHash [csw.MCReturnAddressBytes * 8]frontend.Variable
	TxHash              [csw.FieldSize * 8]frontend.Variable
	OutIdx              frontend.Variable
}

// CswCircuit is the fixed-shape layout of csw.ProverData. It constrains the
// shape only: bit fields are bits, integers fit their widths, and the last
// certificate hashes to the published ScLastWcertHash. The withdrawal
// relations themselves live elsewhere.
type CswCircuit struct {
	GenesisConstant frontend.Variable `gnark:",public"`
	McbScTxsComEnd  frontend.Variable `gnark:",public"`
	ScLastWcertHash frontend.Variable `gnark:",public"`
	Amount          frontend.Variable `gnark:",public"`
	Nullifier       frontend.Variable `gnark:",public"`
	Receiver        frontend.Variable `gnark:",public"`

	IsUtxo    frontend.Variable // 1 => Input is real, FtInput is phantom
	LastWcert WcertVars

	Input            UtxoVars
	MstPathToOutput  merkle.PathVars
	FtInput          FtVars
	FtInputSecretKey [csw.SimulatedScalarFieldModulusBits]frontend.Variable

	McbScTxsComStart   frontend.Variable
	MerklePathToScHash merkle.PathVars
	FtTreePath         merkle.PathVars
	ScbBtrTreeRoot     frontend.Variable
	WcertTreeRoot      frontend.Variable
	ScTxsComHashes     []frontend.Variable
}

// NewBlueprint allocates the variable-length parts of the circuit for p.
func NewBlueprint(p config.Params) *CswCircuit {
	return &CswCircuit{
		LastWcert:          WcertVars{CustomFields: make([]frontend.Variable, p.NumCustomFields)},
		MstPathToOutput:    merkle.Placeholder(p.MstHeight),
		MerklePathToScHash: merkle.Placeholder(p.ScTreeHeight),
		FtTreePath:         merkle.Placeholder(p.FtTreeHeight),
		ScTxsComHashes:     make([]frontend.Variable, p.RangeSize),
	}
}

func (c *CswCircuit) Define(api frontend.API) error {
	api.AssertIsBoolean(c.IsUtxo)

	// integer widths
	api.ToBinary(c.LastWcert.EpochID, 32)
	api.ToBinary(c.LastWcert.Quality, 64)
	api.ToBinary(c.LastWcert.FtMinFee, 64)
	api.ToBinary(c.LastWcert.BtrMinFee, 64)
	api.ToBinary(c.Input.Amount, 64)
	api.ToBinary(c.Input.Nonce, 64)
	api.ToBinary(c.FtInput.Amount, 64)
	api.ToBinary(c.FtInput.OutIdx, 32)

	assertBits(api, c.Input.SpendingPubKey[:])
	assertBits(api, c.Input.CustomHash[:])
	assertBits(api, c.Input.SecretKey[:])
	assertBits(api, c.FtInput.ReceiverPubKey[:])
	assertBits(api, c.FtInput.PaybackAddrDataHash[:])
	assertBits(api, c.FtInput.TxHash[:])
	assertBits(api, c.FtInputSecretKey[:])
	assertBits(api, c.MstPathToOutput.Directions)
	assertBits(api, c.MerklePathToScHash.Directions)
	assertBits(api, c.FtTreePath.Directions)

	api.AssertIsEqual(WcertHash(api, mimc.New(api), c.LastWcert), c.ScLastWcertHash)
	return nil
}

func assertBits(api frontend.API, bits []frontend.Variable) {
	for _, b := range bits {
		api.AssertIsBoolean(b)
	}
}

// WcertHash mirrors csw.WithdrawalCertificateData.Hash.
func WcertHash(api frontend.API, h stdhash.FieldHasher, w WcertVars) frontend.Variable {
	h.Reset()
	h.Write(w.LedgerID, w.EpochID, w.BtRoot, w.Quality, w.McbScTxsCom, w.FtMinFee, w.BtrMinFee)
	h.Write(w.CustomFields...)
	return h.Sum()
}
