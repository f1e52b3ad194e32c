package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Output errors
	ErrConsoleDetached = errors.New(f("console detached"))
)
