package csw

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// PublicKeyFromSecret derives the x-coordinate public key bits for a
// secp256k1 secret key.
func PublicKeyFromSecret(sk SecretKeyBits) (PublicKeyBits, error) {
	priv, err := crypto.ToECDSA(sk.Bytes())
	if err != nil {
		return PublicKeyBits{}, fmt.Errorf("csw: invalid secret key: %w", err)
	}
	var x [SimulatedFieldByteSize]byte
	priv.PublicKey.X.FillBytes(x[:])
	return PublicKeyBitsFromBytes(x[:])
}
