package state

import (
	"math/rand/v2"
	"strconv"
)

// IDGenerator returns a new entity id on each call.
type IDGenerator func() string

// RandomID concatenates two random base-36 fragments. Ids are unique with
// high probability within one dataset; they are not cryptographically secure.
func RandomID() string {
	return fragment() + fragment()
}

func fragment() string {
	s := strconv.FormatUint(rand.Uint64(), 36)
	if len(s) > 11 {
		s = s[:11]
	}
	return s
}
