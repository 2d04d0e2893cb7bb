package witness

import (
	"fmt"

	backendwitness "github.com/consensys/gnark/backend/witness"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/yourorg/cswzk/circuits"
	"github.com/yourorg/cswzk/pkg/csw"
	"github.com/yourorg/cswzk/pkg/field"
)

// PublicInputs is the JSON form of csw.PublicInputs, 0x-hex big-endian.
type PublicInputs struct {
	GenesisConstant string `json:"genesisConstant"`
	McbScTxsComEnd  string `json:"mcbScTxsComEnd"`
	ScLastWcertHash string `json:"scLastWcertHash"`
	Amount          string `json:"amount"`
	Nullifier       string `json:"nullifier"`
	Receiver        string `json:"receiver"`
}

func hexElement(e field.Element) string {
	b := e.Bytes()
	return hexutil.Encode(b[:])
}

// NewPublicInputs encodes each element as 32 zero-padded big-endian bytes.
func NewPublicInputs(p csw.PublicInputs) PublicInputs {
	return PublicInputs{
		GenesisConstant: hexElement(p.GenesisConstant),
		McbScTxsComEnd:  hexElement(p.McbScTxsComEnd),
		ScLastWcertHash: hexElement(p.ScLastWcertHash),
		Amount:          hexElement(p.Amount),
		Nullifier:       hexElement(p.Nullifier),
		Receiver:        hexElement(p.Receiver),
	}
}

// Decode parses the JSON form back into field elements. Values at or above
// the field modulus are rejected.
func (p PublicInputs) Decode() (csw.PublicInputs, error) {
	var out csw.PublicInputs
	for _, f := range []struct {
		name string
		src  string
		dst  *field.Element
	}{
		{"genesisConstant", p.GenesisConstant, &out.GenesisConstant},
		{"mcbScTxsComEnd", p.McbScTxsComEnd, &out.McbScTxsComEnd},
		{"scLastWcertHash", p.ScLastWcertHash, &out.ScLastWcertHash},
		{"amount", p.Amount, &out.Amount},
		{"nullifier", p.Nullifier, &out.Nullifier},
		{"receiver", p.Receiver, &out.Receiver},
	} {
		raw, err := hexutil.Decode(f.src)
		if err != nil {
			return out, fmt.Errorf("%s: %w", f.name, err)
		}
		if *f.dst, err = field.FromBytes(raw); err != nil {
			return out, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return out, nil
}

// Bundle is everything handed to a prover for one withdrawal.
type Bundle struct {
	Full      backendwitness.Witness
	Public    PublicInputs
	Blueprint *circuits.CswCircuit
}
