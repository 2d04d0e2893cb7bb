// Package witness turns CSW prover data into circuit witnesses.
package witness

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog/log"

	"github.com/yourorg/cswzk/circuits"
	"github.com/yourorg/cswzk/pkg/config"
	"github.com/yourorg/cswzk/pkg/csw"
	"github.com/yourorg/cswzk/pkg/field"
	"github.com/yourorg/cswzk/pkg/merkle"
)

// ShapeError reports prover data that does not fit the configured circuit.
type ShapeError struct {
	Field string
	Want  int
	Got   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("witness shape: %s has length %d, circuit expects %d", e.Field, e.Got, e.Want)
}

// CheckShape verifies every variable-length part of d against p, and that
// each path index fits its path's height.
func CheckShape(d *csw.ProverData, p config.Params) error {
	for _, c := range []struct {
		name      string
		want, got int
	}{
		{"lastWcert.customFields", p.NumCustomFields, d.LastWcert().NumCustomFields()},
		{"scTxsComHashes", p.RangeSize, len(d.ScTxsComHashes())},
		{"mstPathToOutput", p.MstHeight, d.MstPathToOutput().Height()},
		{"merklePathToScHash", p.ScTreeHeight, d.MerklePathToScHash().Height()},
		{"ftTreePath", p.FtTreeHeight, d.FtTreePath().Height()},
	} {
		if c.want != c.got {
			return &ShapeError{Field: c.name, Want: c.want, Got: c.got}
		}
	}
	for _, path := range []struct {
		name string
		p    merkle.Path
	}{
		{"mstPathToOutput", d.MstPathToOutput()},
		{"merklePathToScHash", d.MerklePathToScHash()},
		{"ftTreePath", d.FtTreePath()},
	} {
		if err := path.p.Validate(); err != nil {
			return fmt.Errorf("witness shape: %s: %w", path.name, err)
		}
	}
	return nil
}

func fe(e field.Element) frontend.Variable { return field.BigInt(e) }

func bitVars(dst []frontend.Variable, src []bool) {
	for i, b := range src {
		if b {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
	}
}

func feVars(src []field.Element) []frontend.Variable {
	out := make([]frontend.Variable, len(src))
	for i := range src {
		out[i] = fe(src[i])
	}
	return out
}

// Assign maps d onto the circuit layout. The inactive branch is filled with
// its phantom form.
func Assign(d *csw.ProverData) *circuits.CswCircuit {
	wc := d.LastWcert()
	in := d.Input()
	ft := d.FtInput()
	ftSk := d.FtInputSecretKey()

	c := &circuits.CswCircuit{
		GenesisConstant: fe(d.GenesisConstant),
		McbScTxsComEnd:  fe(d.McbScTxsComEnd),
		ScLastWcertHash: fe(d.ScLastWcertHash),
		Amount:          fe(d.Amount),
		Nullifier:       fe(d.Nullifier),
		Receiver:        fe(d.Receiver),

		IsUtxo: 0,
		LastWcert: circuits.WcertVars{
			LedgerID:     fe(wc.LedgerID()),
			EpochID:      wc.EpochID(),
			BtRoot:       fe(wc.BtRoot()),
			Quality:      wc.Quality(),
			McbScTxsCom:  fe(wc.McbScTxsCom()),
			FtMinFee:     wc.FtMinFee(),
			BtrMinFee:    wc.BtrMinFee(),
			CustomFields: feVars(wc.CustomFields()),
		},

		MstPathToOutput:    d.MstPathToOutput().Assign(),
		McbScTxsComStart:   fe(d.McbScTxsComStart()),
		MerklePathToScHash: d.MerklePathToScHash().Assign(),
		FtTreePath:         d.FtTreePath().Assign(),
		ScbBtrTreeRoot:     fe(d.ScbBtrTreeRoot()),
		WcertTreeRoot:      fe(d.WcertTreeRoot()),
		ScTxsComHashes:     feVars(d.ScTxsComHashes()),
	}
	if d.IsUtxo() {
		c.IsUtxo = 1
	}

	c.Input.Amount = in.Output.Amount
	c.Input.Nonce = in.Output.Nonce
	bitVars(c.Input.SpendingPubKey[:], in.Output.SpendingPubKey[:])
	bitVars(c.Input.CustomHash[:], in.Output.CustomHash[:])
	bitVars(c.Input.SecretKey[:], in.SecretKey[:])

	c.FtInput.Amount = ft.Amount
	c.FtInput.OutIdx = ft.OutIdx
	bitVars(c.FtInput.ReceiverPubKey[:], ft.ReceiverPubKey[:])
	bitVars(c.FtInput.PaybackAddrDataHash[:], ft.PaybackAddrDataHash[:])
	bitVars(c.FtInput.TxHash[:], ft.TxHash[:])
	bitVars(c.FtInputSecretKey[:], ftSk[:])

	return c
}

// Build checks d against p and produces the full witness bundle.
func Build(d *csw.ProverData, p config.Params) (*Bundle, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := CheckShape(d, p); err != nil {
		return nil, err
	}

	full, err := frontend.NewWitness(Assign(d), circuits.Curve().ScalarField())
	if err != nil {
		return nil, fmt.Errorf("failed to build witness: %w", err)
	}

	log.Debug().
		Bool("utxo", d.IsUtxo()).
		Int("customFields", p.NumCustomFields).
		Int("rangeSize", p.RangeSize).
		Msg("csw witness assembled")

	return &Bundle{
		Full:      full,
		Public:    NewPublicInputs(d.PublicInputs),
		Blueprint: circuits.NewBlueprint(p),
	}, nil
}
