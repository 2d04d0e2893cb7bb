package merkle

import (
	"github.com/consensys/gnark/frontend"
	stdhash "github.com/consensys/gnark/std/hash"

	"github.com/yourorg/cswzk/pkg/field"
)

// PathVars is the in-circuit shape of a Path.
type PathVars struct {
	Siblings   []frontend.Variable
	Directions []frontend.Variable // 1 => node at this level is a right child
}

// Placeholder allocates PathVars for a circuit blueprint.
func Placeholder(height int) PathVars {
	return PathVars{
		Siblings:   make([]frontend.Variable, height),
		Directions: make([]frontend.Variable, height),
	}
}

// Assign converts p into circuit assignment values.
func (p Path) Assign() PathVars {
	v := Placeholder(p.Height())
	for i := range p.Siblings {
		v.Siblings[i] = field.BigInt(p.Siblings[i])
		if p.IsRight(i) {
			v.Directions[i] = 1
		} else {
			v.Directions[i] = 0
		}
	}
	return v
}

// ComputeRoot is the in-circuit version of Path.Root. Direction bits are
// constrained to be boolean.
func ComputeRoot(api frontend.API, h stdhash.FieldHasher, leaf frontend.Variable, p PathVars) frontend.Variable {
	cur := leaf
	for i := range p.Siblings {
		api.AssertIsBoolean(p.Directions[i])
		l := api.Select(p.Directions[i], p.Siblings[i], cur)
		r := api.Select(p.Directions[i], cur, p.Siblings[i])

		h.Reset()
		h.Write(l, r)
		cur = h.Sum()
	}
	return cur
}
