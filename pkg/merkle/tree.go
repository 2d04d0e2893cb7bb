// Package merkle implements the fixed-height binary Merkle tree shared by the
// backward-transfer commitment and the authentication paths carried in a CSW
// witness. Nodes are MiMC(left, right); unused leaves are the zero element.
package merkle

import (
	"errors"
	"fmt"

	"github.com/yourorg/cswzk/pkg/field"
)

// MaxHeight bounds tree heights so leaf indices fit a uint64 comfortably.
const MaxHeight = 32

var (
	ErrHeight  = errors.New("merkle: invalid tree height")
	ErrTooFull = errors.New("merkle: too many leaves for tree height")
	ErrLeafIdx = errors.New("merkle: leaf index out of range")
)

// Tree is an immutable, fully materialised fixed-height tree.
type Tree struct {
	height int
	// levels[0] are the leaves, levels[height] holds the root. Only the
	// populated prefix of each level is stored; the rest is empty padding.
	levels [][]field.Element
	empty  []field.Element
}

// emptyNodes returns the hash of an empty subtree for every level 0..height.
func emptyNodes(height int) ([]field.Element, error) {
	out := make([]field.Element, height+1)
	for lvl := 1; lvl <= height; lvl++ {
		n, err := hashNode(out[lvl-1], out[lvl-1])
		if err != nil {
			return nil, err
		}
		out[lvl] = n
	}
	return out, nil
}

func hashNode(l, r field.Element) (field.Element, error) {
	return field.Hash(l, r)
}

func checkHeight(height int) error {
	if height < 1 || height > MaxHeight {
		return fmt.Errorf("%w: %d", ErrHeight, height)
	}
	return nil
}

// EmptyRoot is the root of a tree of the given height with no leaves.
func EmptyRoot(height int) (field.Element, error) {
	if err := checkHeight(height); err != nil {
		return field.Element{}, err
	}
	e, err := emptyNodes(height)
	if err != nil {
		return field.Element{}, err
	}
	return e[height], nil
}

// New builds a tree over leaves, placed left to right from index 0.
func New(height int, leaves []field.Element) (*Tree, error) {
	if err := checkHeight(height); err != nil {
		return nil, err
	}
	if uint64(len(leaves)) > uint64(1)<<height {
		return nil, fmt.Errorf("%w: %d leaves, height %d", ErrTooFull, len(leaves), height)
	}
	empty, err := emptyNodes(height)
	if err != nil {
		return nil, err
	}

	t := &Tree{height: height, empty: empty, levels: make([][]field.Element, height+1)}
	t.levels[0] = append([]field.Element(nil), leaves...)

	for lvl := 1; lvl <= height; lvl++ {
		below := t.levels[lvl-1]
		cur := make([]field.Element, (len(below)+1)/2)
		for i := range cur {
			l := below[2*i]
			r := empty[lvl-1]
			if 2*i+1 < len(below) {
				r = below[2*i+1]
			}
			if cur[i], err = hashNode(l, r); err != nil {
				return nil, err
			}
		}
		t.levels[lvl] = cur
	}
	return t, nil
}

func (t *Tree) Height() int { return t.height }

func (t *Tree) Root() field.Element {
	if top := t.levels[t.height]; len(top) > 0 {
		return top[0]
	}
	return t.empty[t.height]
}

// Path returns the authentication path for leaf idx. Any index inside the
// tree is valid, including positions past the last pushed leaf.
func (t *Tree) Path(idx uint64) (Path, error) {
	if idx >= uint64(1)<<t.height {
		return Path{}, fmt.Errorf("%w: %d", ErrLeafIdx, idx)
	}
	p := Path{Siblings: make([]field.Element, t.height), Index: idx}
	pos := idx
	for lvl := 0; lvl < t.height; lvl++ {
		sib := pos ^ 1
		if sib < uint64(len(t.levels[lvl])) {
			p.Siblings[lvl] = t.levels[lvl][sib]
		} else {
			p.Siblings[lvl] = t.empty[lvl]
		}
		pos >>= 1
	}
	return p, nil
}
