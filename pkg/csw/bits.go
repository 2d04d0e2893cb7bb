package csw

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/yourorg/cswzk/pkg/field"
)

const (
	// SimulatedFieldByteSize is the byte size of the emulated (secp256k1) base field.
	SimulatedFieldByteSize = 32
	// FieldSize is the byte size of the native field.
	FieldSize = field.Size
	// SimulatedScalarFieldModulusBits is the bit length of the secp256k1 group order.
	SimulatedScalarFieldModulusBits = 256
	// MCReturnAddressBytes is the length of a main-chain public key hash.
	MCReturnAddressBytes = 20
)

type (
	PublicKeyBits     [SimulatedFieldByteSize * 8]bool
	SecretKeyBits     [SimulatedScalarFieldModulusBits]bool
	FieldHashBits     [FieldSize * 8]bool
	ReturnAddressBits [MCReturnAddressBytes * 8]bool
)

// Bits are laid out most significant bit of each byte first.
func fillBits(dst []bool, b []byte) error {
	if len(b)*8 != len(dst) {
		return fmt.Errorf("want %d bytes, got %d", len(dst)/8, len(b))
	}
	for i, v := range b {
		for j := 0; j < 8; j++ {
			dst[i*8+j] = (v>>(7-j))&1 == 1
		}
	}
	return nil
}

func packBits(src []bool) []byte {
	out := make([]byte, (len(src)+7)/8)
	for i, bit := range src {
		if bit {
			out[i/8] |= 1 << (7 - i%8)
		}
	}
	return out
}

// PublicKeyBitsFromBytes expands exactly 32 bytes, most significant bit of
// each byte first.
func PublicKeyBitsFromBytes(b []byte) (PublicKeyBits, error) {
	var out PublicKeyBits
	if err := fillBits(out[:], b); err != nil {
		return out, fmt.Errorf("public key: %w", err)
	}
	return out, nil
}

// SecretKeyBitsFromBytes expands a 32-byte big-endian scalar. The value is not
// checked against the group order.
func SecretKeyBitsFromBytes(b []byte) (SecretKeyBits, error) {
	var out SecretKeyBits
	if err := fillBits(out[:], b); err != nil {
		return out, fmt.Errorf("secret key: %w", err)
	}
	return out, nil
}

// FieldHashBitsFromBytes expands a 32-byte hash without reducing it.
func FieldHashBitsFromBytes(b []byte) (FieldHashBits, error) {
	var out FieldHashBits
	if err := fillBits(out[:], b); err != nil {
		return out, fmt.Errorf("hash: %w", err)
	}
	return out, nil
}

// ReturnAddressBitsFromBytes expands a 20-byte main-chain key hash.
func ReturnAddressBitsFromBytes(b []byte) (ReturnAddressBits, error) {
	var out ReturnAddressBits
	if err := fillBits(out[:], b); err != nil {
		return out, fmt.Errorf("return address: %w", err)
	}
	return out, nil
}

// Bytes packs the bits back in the order the FromBytes constructors read them.
func (k PublicKeyBits) Bytes() []byte     { return packBits(k[:]) }
func (k SecretKeyBits) Bytes() []byte     { return packBits(k[:]) }
func (h FieldHashBits) Bytes() []byte     { return packBits(h[:]) }
func (a ReturnAddressBits) Bytes() []byte { return packBits(a[:]) }

/* ---------------- phantom keys ---------------- */

// The phantom public key is the x-coordinate of the secp256k1 generator.
var phantomPublicKey = sync.OnceValue(func() PublicKeyBits {
	var x [SimulatedFieldByteSize]byte
	crypto.S256().Params().Gx.FillBytes(x[:])
	out, _ := PublicKeyBitsFromBytes(x[:])
	return out
})

// PhantomPublicKeyBits returns the public key placed in unused witness slots.
func PhantomPublicKeyBits() PublicKeyBits {
	return phantomPublicKey()
}

// PhantomSecretKeyBits returns the zero scalar, which is never a valid key.
func PhantomSecretKeyBits() SecretKeyBits {
	return SecretKeyBits{}
}
