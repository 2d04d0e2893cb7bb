package merkle

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/cswzk/internal/mimc"
	"github.com/yourorg/cswzk/pkg/field"
)

func leaves(n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = field.FromUint64(uint64(100 + i))
	}
	return out
}

func TestEmptyTreeMatchesEmptyRoot(t *testing.T) {
	tr, err := New(4, nil)
	require.NoError(t, err)

	want, err := EmptyRoot(4)
	require.NoError(t, err)
	got := tr.Root()
	require.True(t, want.Equal(&got))
	require.False(t, got.IsZero())
}

func TestRootByHand(t *testing.T) {
	ls := leaves(3)
	tr, err := New(2, ls)
	require.NoError(t, err)

	var zero field.Element
	l, _ := field.Hash(ls[0], ls[1])
	r, _ := field.Hash(ls[2], zero)
	want, _ := field.Hash(l, r)

	got := tr.Root()
	require.True(t, want.Equal(&got))
}

func TestPathsRecomputeRoot(t *testing.T) {
	ls := leaves(5)
	tr, err := New(3, ls)
	require.NoError(t, err)
	root := tr.Root()

	for i := range ls {
		p, err := tr.Path(uint64(i))
		require.NoError(t, err)
		require.Equal(t, 3, p.Height())

		got, err := p.Root(ls[i])
		require.NoError(t, err)
		require.True(t, root.Equal(&got), "leaf %d", i)
	}

	// an unpopulated slot authenticates the zero leaf
	p, err := tr.Path(7)
	require.NoError(t, err)
	got, err := p.Root(field.Element{})
	require.NoError(t, err)
	require.True(t, root.Equal(&got))

	_, err = tr.Path(8)
	require.ErrorIs(t, err, ErrLeafIdx)
}

func TestNewRejectsBadShape(t *testing.T) {
	_, err := New(2, leaves(5))
	require.ErrorIs(t, err, ErrTooFull)

	_, err = New(0, nil)
	require.ErrorIs(t, err, ErrHeight)

	_, err = EmptyRoot(MaxHeight + 1)
	require.ErrorIs(t, err, ErrHeight)
}

func TestCloneIsDeep(t *testing.T) {
	tr, err := New(3, leaves(4))
	require.NoError(t, err)
	p, err := tr.Path(2)
	require.NoError(t, err)

	c := p.Clone()
	c.Siblings[0] = field.FromUint64(9)
	require.False(t, c.Siblings[0].Equal(&p.Siblings[0]))
	require.Equal(t, p.Index, c.Index)
}

func TestValidateIndexRange(t *testing.T) {
	p := NewPath(2)
	p.Index = 3
	require.NoError(t, p.Validate())

	// 1<<height and 5 would both assign as low bits of a height-2 path
	for _, idx := range []uint64{4, 5, 1 << 40} {
		p.Index = idx
		require.ErrorIs(t, p.Validate(), ErrLeafIdx, idx)
		_, err := p.Root(field.FromUint64(1))
		require.ErrorIs(t, err, ErrLeafIdx, idx)
	}

	tr, err := New(3, leaves(4))
	require.NoError(t, err)
	last, err := tr.Path(7)
	require.NoError(t, err)
	require.NoError(t, last.Validate())
}

/* ---------------- in-circuit root ---------------- */

type rootCircuit struct {
	Leaf frontend.Variable
	Path PathVars
	Root frontend.Variable `gnark:",public"`
}

func (c *rootCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(ComputeRoot(api, mimc.New(api), c.Leaf, c.Path), c.Root)
	return nil
}

func TestComputeRootMatchesNative(t *testing.T) {
	ls := leaves(6)
	tr, err := New(3, ls)
	require.NoError(t, err)
	p, err := tr.Path(5)
	require.NoError(t, err)

	blue := &rootCircuit{Path: Placeholder(3)}
	good := &rootCircuit{Leaf: field.BigInt(ls[5]), Path: p.Assign(), Root: field.BigInt(tr.Root())}
	require.NoError(t, test.IsSolved(blue, good, ecc.BN254.ScalarField()))

	bad := &rootCircuit{Leaf: field.BigInt(ls[4]), Path: p.Assign(), Root: field.BigInt(tr.Root())}
	require.Error(t, test.IsSolved(blue, bad, ecc.BN254.ScalarField()))
}
