package circuits

import "github.com/consensys/gnark-crypto/ecc"

// Curve is the curve whose scalar field is field.Element.
func Curve() ecc.ID { return ecc.BN254 }
