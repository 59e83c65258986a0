// names.go — hygienic names for anonymous wrapper results.
package ngasync

import "strconv"

// refCounter hands out the unique locals that hold the wrapper built for an
// arrow function or function expression: `_ref`, `_ref1`, `_ref2`, ...
// One counter lives per Transform call, so names are unique across the whole
// tree within a pass.
type refCounter struct {
	count int
}

// next returns the next reference name. The first is the bare base name;
// later ones append an increasing suffix starting at 1.
func (c *refCounter) next() string {
	name := "_ref"
	if c.count > 0 {
		name += strconv.Itoa(c.count)
	}
	c.count++
	return name
}
