package scene

import "fmt"

// Handle refers to an entity slot in a World. A handle whose generation no
// longer matches its slot points at a destroyed entity and resolves to
// nothing. The zero Handle is never valid.
type Handle struct {
	Index      uint32
	Generation uint32
}

// None is the zero handle, used for "no parent" and "no camera parent".
var None Handle

// IsNone reports whether h is the zero handle.
func (h Handle) IsNone() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d@%d", h.Index, h.Generation)
}
