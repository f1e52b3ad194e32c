package memory

import (
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

// ErrAddress is an access outside of the addressable span.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%02x out of range", int(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}
