package witness

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/yourorg/cswzk/pkg/bt"
	"github.com/yourorg/cswzk/pkg/config"
	"github.com/yourorg/cswzk/pkg/csw"
	"github.com/yourorg/cswzk/pkg/field"
	"github.com/yourorg/cswzk/pkg/merkle"
)

var (
	ErrTargetChoice = errors.New("fixture must set exactly one of utxo and forwardTransfer")
	ErrMissingField = errors.New("fixture: missing required field")
)

// fixture is the on-disk description of one CSW instance. Field elements are
// 0x-hex big-endian, bit fields 0x-hex bytes of their exact length. Only
// scLastWcertHash, lastWcert, ftInputSecretKey and the paths may be omitted.
type fixture struct {
	GenesisConstant hexutil.Bytes `json:"genesisConstant"`
	McbScTxsComEnd  hexutil.Bytes `json:"mcbScTxsComEnd"`
	ScLastWcertHash hexutil.Bytes `json:"scLastWcertHash"` // computed from lastWcert when empty
	Amount          hexutil.Bytes `json:"amount"`
	Nullifier       hexutil.Bytes `json:"nullifier"`
	Receiver        hexutil.Bytes `json:"receiver"`

	LastWcert       *wcertFixture `json:"lastWcert"` // nil => phantom
	Utxo            *utxoFixture  `json:"utxo"`
	ForwardTransfer *ftFixture    `json:"forwardTransfer"`

	MstPathToOutput    *pathFixture    `json:"mstPathToOutput"`
	FtInputSecretKey   hexutil.Bytes   `json:"ftInputSecretKey"`
	McbScTxsComStart   hexutil.Bytes   `json:"mcbScTxsComStart"`
	MerklePathToScHash *pathFixture    `json:"merklePathToScHash"`
	FtTreePath         *pathFixture    `json:"ftTreePath"`
	ScbBtrTreeRoot     hexutil.Bytes   `json:"scbBtrTreeRoot"`
	WcertTreeRoot      hexutil.Bytes   `json:"wcertTreeRoot"`
	ScTxsComHashes     []hexutil.Bytes `json:"scTxsComHashes"`
}

type wcertFixture struct {
	LedgerID          hexutil.Bytes         `json:"ledgerId"`
	EpochID           uint32                `json:"epochId"`
	BackwardTransfers []bt.BackwardTransfer `json:"backwardTransfers"`
	Quality           uint64                `json:"quality"`
	McbScTxsCom       hexutil.Bytes         `json:"mcbScTxsCom"`
	FtMinFee          uint64                `json:"ftMinFee"`
	BtrMinFee         uint64                `json:"btrMinFee"`
	CustomFields      []hexutil.Bytes       `json:"customFields"`
}

type utxoFixture struct {
	SpendingPubKey hexutil.Bytes `json:"spendingPubKey"` // derived from secretKey when empty
	Amount         uint64        `json:"amount"`
	Nonce          uint64        `json:"nonce"`
	CustomHash     hexutil.Bytes `json:"customHash"`
	SecretKey      hexutil.Bytes `json:"secretKey"`
}

type ftFixture struct {
	Amount         uint64         `json:"amount"`
	ReceiverPubKey hexutil.Bytes  `json:"receiverPubKey"`
	PaybackAddr    common.Address `json:"paybackAddr"`
	TxHash         hexutil.Bytes  `json:"txHash"`
	OutIdx         uint32         `json:"outIdx"`
}

type pathFixture struct {
	Siblings []hexutil.Bytes `json:"siblings"`
	Index    uint64          `json:"index"`
}

// required decodes a field element that has no fallback value.
func required(name string, b hexutil.Bytes) (field.Element, error) {
	if len(b) == 0 {
		return field.Element{}, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	e, err := field.FromBytes(b)
	if err != nil {
		return field.Element{}, fmt.Errorf("%s: %w", name, err)
	}
	return e, nil
}

func elements(name string, in []hexutil.Bytes) ([]field.Element, error) {
	out := make([]field.Element, len(in))
	for i, b := range in {
		e, err := field.FromBytes(b)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		out[i] = e
	}
	return out, nil
}

func (p *pathFixture) decode(name string, height int) (merkle.Path, error) {
	if p == nil {
		return merkle.NewPath(height), nil
	}
	sib, err := elements(name, p.Siblings)
	if err != nil {
		return merkle.Path{}, err
	}
	path := merkle.Path{Siblings: sib, Index: p.Index}
	if err := path.Validate(); err != nil {
		return merkle.Path{}, fmt.Errorf("%s: %w", name, err)
	}
	return path, nil
}

func (w *wcertFixture) decode(numCustomFields int) (*csw.WithdrawalCertificateData, error) {
	if w == nil {
		return csw.PhantomWithdrawalCertificate(numCustomFields)
	}
	ledger, err := required("lastWcert.ledgerId", w.LedgerID)
	if err != nil {
		return nil, err
	}
	com, err := required("lastWcert.mcbScTxsCom", w.McbScTxsCom)
	if err != nil {
		return nil, err
	}
	custom, err := elements("lastWcert.customFields", w.CustomFields)
	if err != nil {
		return nil, err
	}
	return csw.NewWithdrawalCertificate(ledger, w.EpochID, w.BackwardTransfers, w.Quality, com, w.FtMinFee, w.BtrMinFee, custom)
}

func (u *utxoFixture) decode() (csw.UtxoInputData, error) {
	in := csw.DefaultUtxoInput()
	var err error
	if in.SecretKey, err = csw.SecretKeyBitsFromBytes(u.SecretKey); err != nil {
		return in, fmt.Errorf("utxo: %w", err)
	}
	if len(u.SpendingPubKey) == 0 {
		in.Output.SpendingPubKey, err = csw.PublicKeyFromSecret(in.SecretKey)
	} else {
		in.Output.SpendingPubKey, err = csw.PublicKeyBitsFromBytes(u.SpendingPubKey)
	}
	if err != nil {
		return in, fmt.Errorf("utxo: %w", err)
	}
	if len(u.CustomHash) > 0 {
		if in.Output.CustomHash, err = csw.FieldHashBitsFromBytes(u.CustomHash); err != nil {
			return in, fmt.Errorf("utxo: %w", err)
		}
	}
	in.Output.Amount = u.Amount
	in.Output.Nonce = u.Nonce
	return in, nil
}

func (f *ftFixture) decode() (csw.FtInputData, error) {
	ft := csw.DefaultFtInput()
	var err error
	if ft.ReceiverPubKey, err = csw.PublicKeyBitsFromBytes(f.ReceiverPubKey); err != nil {
		return ft, fmt.Errorf("forwardTransfer: %w", err)
	}
	if ft.PaybackAddrDataHash, err = csw.ReturnAddressBitsFromBytes(f.PaybackAddr.Bytes()); err != nil {
		return ft, fmt.Errorf("forwardTransfer: %w", err)
	}
	if ft.TxHash, err = csw.FieldHashBitsFromBytes(f.TxHash); err != nil {
		return ft, fmt.Errorf("forwardTransfer: %w", err)
	}
	ft.Amount = f.Amount
	ft.OutIdx = f.OutIdx
	return ft, nil
}

// Decode reads a fixture from r. Absent paths and the absent certificate are
// filled with placeholders sized by p. Unknown keys, empty required fields and
// path indices outside their tree are rejected.
func Decode(r io.Reader, p config.Params) (*csw.ProverData, error) {
	var fx fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixture: %w", err)
	}
	if (fx.Utxo == nil) == (fx.ForwardTransfer == nil) {
		return nil, ErrTargetChoice
	}

	var (
		pub csw.PublicInputs
		wit csw.Witnesses
		err error
	)
	for _, f := range []struct {
		name string
		src  hexutil.Bytes
		dst  *field.Element
	}{
		{"genesisConstant", fx.GenesisConstant, &pub.GenesisConstant},
		{"mcbScTxsComEnd", fx.McbScTxsComEnd, &pub.McbScTxsComEnd},
		{"amount", fx.Amount, &pub.Amount},
		{"nullifier", fx.Nullifier, &pub.Nullifier},
		{"receiver", fx.Receiver, &pub.Receiver},
		{"mcbScTxsComStart", fx.McbScTxsComStart, &wit.McbScTxsComStart},
		{"scbBtrTreeRoot", fx.ScbBtrTreeRoot, &wit.ScbBtrTreeRoot},
		{"wcertTreeRoot", fx.WcertTreeRoot, &wit.WcertTreeRoot},
	} {
		if *f.dst, err = required(f.name, f.src); err != nil {
			return nil, err
		}
	}

	if wit.LastWcert, err = fx.LastWcert.decode(p.NumCustomFields); err != nil {
		return nil, err
	}
	if len(fx.ScLastWcertHash) == 0 {
		pub.ScLastWcertHash, err = wit.LastWcert.Hash()
	} else {
		pub.ScLastWcertHash, err = field.FromBytes(fx.ScLastWcertHash)
	}
	if err != nil {
		return nil, fmt.Errorf("scLastWcertHash: %w", err)
	}

	if fx.Utxo != nil {
		in, err := fx.Utxo.decode()
		if err != nil {
			return nil, err
		}
		wit.Target = csw.Utxo{Input: in}
	} else {
		ft, err := fx.ForwardTransfer.decode()
		if err != nil {
			return nil, err
		}
		wit.Target = csw.ForwardTransfer{Input: ft}
	}

	if len(fx.FtInputSecretKey) > 0 {
		if wit.FtInputSecretKey, err = csw.SecretKeyBitsFromBytes(fx.FtInputSecretKey); err != nil {
			return nil, fmt.Errorf("ftInputSecretKey: %w", err)
		}
	}
	if wit.MstPathToOutput, err = fx.MstPathToOutput.decode("mstPathToOutput", p.MstHeight); err != nil {
		return nil, err
	}
	if wit.MerklePathToScHash, err = fx.MerklePathToScHash.decode("merklePathToScHash", p.ScTreeHeight); err != nil {
		return nil, err
	}
	if wit.FtTreePath, err = fx.FtTreePath.decode("ftTreePath", p.FtTreeHeight); err != nil {
		return nil, err
	}
	if wit.ScTxsComHashes, err = elements("scTxsComHashes", fx.ScTxsComHashes); err != nil {
		return nil, err
	}

	return csw.NewProverData(pub, wit)
}

// FromFixture loads the fixture file at path.
func FromFixture(path string, p config.Params) (*csw.ProverData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	defer f.Close()
	return Decode(f, p)
}
