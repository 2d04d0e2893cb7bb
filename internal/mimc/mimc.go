package mimc

import (
	"github.com/consensys/gnark/frontend"
	stdhash "github.com/consensys/gnark/std/hash"
	stdmimc "github.com/consensys/gnark/std/hash/mimc"
)

// New returns the in-circuit counterpart of field.Hash.
func New(api frontend.API) stdhash.FieldHasher {
	h, err := stdmimc.NewMiMC(api)
	if err != nil {
		panic(err)
	}
	return &h
}
