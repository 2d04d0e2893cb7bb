package witness

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/cswzk/circuits"
	"github.com/yourorg/cswzk/pkg/config"
	"github.com/yourorg/cswzk/pkg/csw"
	"github.com/yourorg/cswzk/pkg/field"
	"github.com/yourorg/cswzk/pkg/merkle"
)

func testParams(t *testing.T) config.Params {
	t.Helper()
	p, err := config.Load(filepath.Join("testdata", "csw.yaml"))
	require.NoError(t, err)
	return p
}

func TestFromFixtureUtxo(t *testing.T) {
	p := testParams(t)
	d, err := FromFixture(filepath.Join("testdata", "csw_utxo.json"), p)
	require.NoError(t, err)

	require.True(t, d.IsUtxo())
	require.Equal(t, uint64(1000), d.Input().Output.Amount)
	require.Equal(t, uint64(3), d.Input().Output.Nonce)
	require.Equal(t, csw.DefaultFtInput(), d.FtInput())

	// spending key was derived from the secret key
	want, err := csw.PublicKeyFromSecret(d.Input().SecretKey)
	require.NoError(t, err)
	require.Equal(t, want, d.Input().Output.SpendingPubKey)

	wc := d.LastWcert()
	require.Equal(t, uint32(7), wc.EpochID())
	require.Equal(t, 2, wc.NumCustomFields())

	// absent scLastWcertHash is derived from the certificate
	h, err := wc.Hash()
	require.NoError(t, err)
	require.True(t, h.Equal(&d.ScLastWcertHash))

	require.Equal(t, uint64(5), d.MstPathToOutput().Index)
	require.NoError(t, CheckShape(d, p))
}

func TestFromFixtureForwardTransfer(t *testing.T) {
	p := testParams(t)
	d, err := FromFixture(filepath.Join("testdata", "csw_ft.json"), p)
	require.NoError(t, err)

	require.False(t, d.IsUtxo())
	require.Equal(t, uint64(77), d.FtInput().Amount)
	require.Equal(t, uint32(2), d.FtInput().OutIdx)
	require.Equal(t, csw.DefaultUtxoInput(), d.Input())

	// no lastWcert in the fixture: phantom certificate
	ph, err := csw.PhantomWithdrawalCertificate(p.NumCustomFields)
	require.NoError(t, err)
	require.True(t, ph.Equal(d.LastWcert()))

	// absent MST path is a placeholder of the configured height
	mst := d.MstPathToOutput()
	require.Equal(t, p.MstHeight, mst.Height())
	require.NoError(t, CheckShape(d, p))
}

func TestDecodeRejectsTargetChoice(t *testing.T) {
	p := config.Default()

	_, err := Decode(strings.NewReader(`{}`), p)
	require.ErrorIs(t, err, ErrTargetChoice)

	both := `{"utxo":{"secretKey":"0x0000000000000000000000000000000000000000000000000000000000000002"},
	          "forwardTransfer":{}}`
	_, err = Decode(strings.NewReader(both), p)
	require.ErrorIs(t, err, ErrTargetChoice)
}

// editFixture loads a testdata fixture as a generic map, applies edit and
// decodes the result.
func editFixture(t *testing.T, name string, edit func(map[string]any)) (*csw.ProverData, error) {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	edit(m)
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return Decode(bytes.NewReader(out), testParams(t))
}

func TestDecodeRejectsUnknownKey(t *testing.T) {
	_, err := editFixture(t, "csw_utxo.json", func(m map[string]any) {
		m["nulifier"] = m["nullifier"]
		delete(m, "nullifier")
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "nulifier")
}

func TestDecodeRejectsMissingRequiredField(t *testing.T) {
	for _, name := range []string{
		"genesisConstant", "mcbScTxsComEnd", "amount", "nullifier", "receiver",
		"mcbScTxsComStart", "scbBtrTreeRoot", "wcertTreeRoot",
	} {
		_, err := editFixture(t, "csw_utxo.json", func(m map[string]any) { delete(m, name) })
		require.ErrorIs(t, err, ErrMissingField, name)
		require.Contains(t, err.Error(), name)

		_, err = editFixture(t, "csw_ft.json", func(m map[string]any) { m[name] = "0x" })
		require.ErrorIs(t, err, ErrMissingField, name)
	}

	_, err := editFixture(t, "csw_utxo.json", func(m map[string]any) {
		delete(m["lastWcert"].(map[string]any), "ledgerId")
	})
	require.ErrorIs(t, err, ErrMissingField)

	// optional parts still decode
	_, err = editFixture(t, "csw_utxo.json", func(m map[string]any) {
		delete(m, "lastWcert")
		delete(m, "mstPathToOutput")
	})
	require.NoError(t, err)
}

func TestDecodeRejectsOutOfRangeIndex(t *testing.T) {
	p := testParams(t)
	for _, idx := range []uint64{1 << uint(p.MstHeight), 1<<uint(p.MstHeight) + 5} {
		_, err := editFixture(t, "csw_utxo.json", func(m map[string]any) {
			m["mstPathToOutput"].(map[string]any)["index"] = idx
		})
		require.ErrorIs(t, err, merkle.ErrLeafIdx, idx)
		require.Contains(t, err.Error(), "mstPathToOutput")
	}

	_, err := editFixture(t, "csw_ft.json", func(m map[string]any) {
		m["ftTreePath"].(map[string]any)["index"] = 1 << uint(p.FtTreeHeight)
	})
	require.ErrorIs(t, err, merkle.ErrLeafIdx)
}

func TestCheckShapeRejectsOutOfRangeIndex(t *testing.T) {
	p := testParams(t)
	wc, err := csw.PhantomWithdrawalCertificate(p.NumCustomFields)
	require.NoError(t, err)

	mst := merkle.NewPath(p.MstHeight)
	mst.Index = 1 << uint(p.MstHeight)
	d, err := csw.NewProverData(csw.PublicInputs{}, csw.Witnesses{
		LastWcert:          wc,
		Target:             csw.Utxo{Input: csw.DefaultUtxoInput()},
		MstPathToOutput:    mst,
		MerklePathToScHash: merkle.NewPath(p.ScTreeHeight),
		FtTreePath:         merkle.NewPath(p.FtTreeHeight),
		ScTxsComHashes:     make([]field.Element, p.RangeSize),
	})
	require.NoError(t, err)

	require.ErrorIs(t, CheckShape(d, p), merkle.ErrLeafIdx)
	_, err = Build(d, p)
	require.ErrorIs(t, err, merkle.ErrLeafIdx)
}

func TestFromFixtureMissingFile(t *testing.T) {
	_, err := FromFixture("nonexistent.json", config.Default())
	require.Error(t, err)
}

func TestShapeMismatch(t *testing.T) {
	p := testParams(t)
	d, err := FromFixture(filepath.Join("testdata", "csw_utxo.json"), p)
	require.NoError(t, err)

	p.RangeSize++
	_, err = Build(d, p)
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "scTxsComHashes", se.Field)
}

func TestBuildSolvesCircuit(t *testing.T) {
	p := testParams(t)
	for _, name := range []string{"csw_utxo.json", "csw_ft.json"} {
		d, err := FromFixture(filepath.Join("testdata", name), p)
		require.NoError(t, err, name)

		bundle, err := Build(d, p)
		require.NoError(t, err, name)
		require.NotNil(t, bundle.Full)

		pub, err := bundle.Public.Decode()
		require.NoError(t, err)
		require.Equal(t, d.PublicInputs, pub)

		require.NoError(t, test.IsSolved(bundle.Blueprint, Assign(d), circuits.Curve().ScalarField()), name)
	}
}

func TestWrongWcertHashFails(t *testing.T) {
	p := testParams(t)
	d, err := FromFixture(filepath.Join("testdata", "csw_utxo.json"), p)
	require.NoError(t, err)

	a := Assign(d)
	a.ScLastWcertHash = field.BigInt(field.Phantom())
	require.Error(t, test.IsSolved(circuits.NewBlueprint(p), a, circuits.Curve().ScalarField()))
}

func TestPublicInputsJSON(t *testing.T) {
	pi := NewPublicInputs(csw.PublicInputs{Amount: field.FromUint64(1000)})
	raw, err := json.Marshal(pi)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"amount":"0x00000000000000000000000000000000000000000000000000000000000003e8"`)
}
