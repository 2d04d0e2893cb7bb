// Package field wraps the native BN254 scalar field used for every hash and
// commitment in the CSW witness.
package field

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/ethereum/go-ethereum/crypto"
)

// Element is the native field element.
type Element = fr.Element

// Size is the byte length of a canonical Element encoding.
const Size = fr.Bytes

const phantomTag = "CSW_PHANTOM_FIELD_ELEMENT"

var phantom = sync.OnceValue(func() Element {
	var e Element
	e.SetBytes(crypto.Keccak256([]byte(phantomTag))) // reduced mod r
	return e
})

// Phantom returns the sentinel used for every field element of a placeholder witness.
func Phantom() Element {
	return phantom()
}

// FromUint64 lifts an unsigned integer into the field.
func FromUint64(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// FromBytes decodes a big-endian encoding of at most Size bytes. Values that
// are not canonical (>= modulus) are rejected rather than reduced.
func FromBytes(b []byte) (Element, error) {
	var e Element
	if len(b) > Size {
		return e, fmt.Errorf("field element too long: %d bytes", len(b))
	}
	var buf [Size]byte
	copy(buf[Size-len(b):], b)
	if err := e.SetBytesCanonical(buf[:]); err != nil {
		return e, fmt.Errorf("non-canonical field element: %w", err)
	}
	return e, nil
}

// BigInt returns the canonical integer value of e.
func BigInt(e Element) *big.Int {
	return e.BigInt(new(big.Int))
}

// Hash returns MiMC(elems...) over the native field. Each element is absorbed
// as one canonical block, matching gnark's std/hash/mimc in-circuit.
func Hash(elems ...Element) (Element, error) {
	var out Element
	h := mimc.NewMiMC()
	for i := range elems {
		b := elems[i].Bytes()
		if _, err := h.Write(b[:]); err != nil {
			return out, fmt.Errorf("mimc write: %w", err)
		}
	}
	out.SetBytes(h.Sum(nil))
	return out, nil
}
