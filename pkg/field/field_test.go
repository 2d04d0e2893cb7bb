package field

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestPhantomIsStable(t *testing.T) {
	a, b := Phantom(), Phantom()
	require.True(t, a.Equal(&b))
	require.False(t, a.IsZero())
}

func TestFromBytes(t *testing.T) {
	e, err := FromBytes([]byte{0x01, 0x02})
	require.NoError(t, err)
	want := FromUint64(0x0102)
	require.True(t, e.Equal(&want))

	// the modulus itself is not canonical
	mod := fr.Modulus().Bytes()
	_, err = FromBytes(mod)
	require.Error(t, err)

	_, err = FromBytes(make([]byte, Size+1))
	require.Error(t, err)
}

func TestHashOrderSensitive(t *testing.T) {
	x, y := FromUint64(1), FromUint64(2)

	h1, err := Hash(x, y)
	require.NoError(t, err)
	h2, err := Hash(y, x)
	require.NoError(t, err)
	require.False(t, h1.Equal(&h2))

	again, err := Hash(x, y)
	require.NoError(t, err)
	require.True(t, h1.Equal(&again))
}
