package csw

import (
	"github.com/yourorg/cswzk/pkg/field"
	"github.com/yourorg/cswzk/pkg/merkle"
)

// WithdrawalTarget is what a CSW withdraws: either an unspent sidechain
// output or a forward transfer the sidechain never processed.
type WithdrawalTarget interface {
	isWithdrawalTarget()
}

// Utxo withdraws an unspent output.
type Utxo struct {
	Input UtxoInputData
}

// ForwardTransfer withdraws an unprocessed forward transfer.
type ForwardTransfer struct {
	Input FtInputData
}

func (Utxo) isWithdrawalTarget()            {}
func (ForwardTransfer) isWithdrawalTarget() {}

// PublicInputs are the values the main chain supplies to the verifier.
type PublicInputs struct {
	GenesisConstant field.Element
	McbScTxsComEnd  field.Element // cumulative sc txs commitment at the ceasing block
	ScLastWcertHash field.Element
	Amount          field.Element
	Nullifier       field.Element
	Receiver        field.Element
}

// Witnesses are the private inputs of one CSW proof.
type Witnesses struct {
	LastWcert *WithdrawalCertificateData // phantom when no certificate was confirmed
	Target    WithdrawalTarget

	MstPathToOutput  merkle.Path
	FtInputSecretKey SecretKeyBits

	McbScTxsComStart   field.Element
	MerklePathToScHash merkle.Path
	FtTreePath         merkle.Path
	ScbBtrTreeRoot     field.Element
	WcertTreeRoot      field.Element

	// cumulative commitments from McbScTxsComStart to McbScTxsComEnd
	ScTxsComHashes []field.Element
}

// ProverData is everything the CSW circuit consumes for one withdrawal.
type ProverData struct {
	PublicInputs
	w Witnesses
}

// NewProverData snapshots pub and wit. Slices and paths are copied, so the
// caller may reuse its buffers afterwards.
func NewProverData(pub PublicInputs, wit Witnesses) (*ProverData, error) {
	if wit.LastWcert == nil {
		return nil, ErrMissingCertificate
	}
	if wit.Target == nil {
		return nil, ErrMissingTarget
	}
	// typed-nil pointers count as missing too
	switch t := wit.Target.(type) {
	case *Utxo:
		if t == nil {
			return nil, ErrMissingTarget
		}
		wit.Target = *t
	case *ForwardTransfer:
		if t == nil {
			return nil, ErrMissingTarget
		}
		wit.Target = *t
	}

	wit.LastWcert = wit.LastWcert.clone()
	wit.MstPathToOutput = wit.MstPathToOutput.Clone()
	wit.MerklePathToScHash = wit.MerklePathToScHash.Clone()
	wit.FtTreePath = wit.FtTreePath.Clone()
	wit.ScTxsComHashes = cloneElements(wit.ScTxsComHashes)

	return &ProverData{PublicInputs: pub, w: wit}, nil
}

func (d *ProverData) LastWcert() *WithdrawalCertificateData { return d.w.LastWcert.clone() }

func (d *ProverData) Target() WithdrawalTarget { return d.w.Target }

// IsUtxo reports whether the withdrawal spends a sidechain output.
func (d *ProverData) IsUtxo() bool {
	_, ok := d.w.Target.(Utxo)
	return ok
}

// Input returns the UTXO being withdrawn, or the phantom input when the
// withdrawal is a forward transfer.
func (d *ProverData) Input() UtxoInputData {
	if u, ok := d.w.Target.(Utxo); ok {
		return u.Input
	}
	return DefaultUtxoInput()
}

// FtInput returns the forward transfer being withdrawn, or the phantom one.
func (d *ProverData) FtInput() FtInputData {
	if f, ok := d.w.Target.(ForwardTransfer); ok {
		return f.Input
	}
	return DefaultFtInput()
}

func (d *ProverData) MstPathToOutput() merkle.Path    { return d.w.MstPathToOutput.Clone() }
func (d *ProverData) FtInputSecretKey() SecretKeyBits { return d.w.FtInputSecretKey }
func (d *ProverData) McbScTxsComStart() field.Element { return d.w.McbScTxsComStart }
func (d *ProverData) MerklePathToScHash() merkle.Path { return d.w.MerklePathToScHash.Clone() }
func (d *ProverData) FtTreePath() merkle.Path         { return d.w.FtTreePath.Clone() }
func (d *ProverData) ScbBtrTreeRoot() field.Element   { return d.w.ScbBtrTreeRoot }
func (d *ProverData) WcertTreeRoot() field.Element    { return d.w.WcertTreeRoot }

func (d *ProverData) ScTxsComHashes() []field.Element {
	return cloneElements(d.w.ScTxsComHashes)
}
