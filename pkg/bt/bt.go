// Package bt holds backward transfers and the commitment a withdrawal
// certificate makes over them.
package bt

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/yourorg/cswzk/pkg/field"
	"github.com/yourorg/cswzk/pkg/merkle"
)

// MerkleTreeHeight is the height of the backward-transfer tree.
const MerkleTreeHeight = 12

// MaxTransfers is the number of leaves the tree can hold.
const MaxTransfers = 1 << MerkleTreeHeight

var ErrTooManyTransfers = errors.New("too many backward transfers")

// BackwardTransfer is an outbound payment recorded in a withdrawal certificate.
type BackwardTransfer struct {
	Amount     uint64         `json:"amount"`
	PubKeyHash common.Address `json:"pubKeyHash"` // 20-byte main-chain key hash
}

// Leaf returns MiMC(amount, pubKeyHash).
func (b BackwardTransfer) Leaf() (field.Element, error) {
	pkh, err := field.FromBytes(b.PubKeyHash.Bytes())
	if err != nil {
		return field.Element{}, fmt.Errorf("pubkey hash: %w", err)
	}
	return field.Hash(field.FromUint64(b.Amount), pkh)
}

// MerkleRoot commits to bts in order. A nil or empty list yields the root of
// the empty tree.
func MerkleRoot(bts []BackwardTransfer) (field.Element, error) {
	if len(bts) > MaxTransfers {
		return field.Element{}, fmt.Errorf("%w: %d > %d", ErrTooManyTransfers, len(bts), MaxTransfers)
	}
	if len(bts) == 0 {
		return merkle.EmptyRoot(MerkleTreeHeight)
	}

	leaves := make([]field.Element, len(bts))
	for i, b := range bts {
		l, err := b.Leaf()
		if err != nil {
			return field.Element{}, fmt.Errorf("bt %d: %w", i, err)
		}
		leaves[i] = l
	}
	t, err := merkle.New(MerkleTreeHeight, leaves)
	if err != nil {
		return field.Element{}, err
	}
	return t.Root(), nil
}
