package io

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failWriter struct{}

var errWrite = errors.New("write failed")

func (failWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}

func TestConsole(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	con := &Console{Output: out}

	assert.NoError(con.Number(72))
	assert.NoError(con.Char('H'))
	assert.NoError(con.Char('i'))
	assert.NoError(con.Number(0))
	assert.NoError(con.Number(255))

	assert.Equal("72\nHi0\n255\n", out.String())
}

func TestConsole_Errors(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	assert.Equal(ErrConsoleDetached, con.Number(1))
	assert.Equal(ErrConsoleDetached, con.Char(1))

	con.Output = failWriter{}
	assert.ErrorIs(con.Number(1), errWrite)
	assert.ErrorIs(con.Char(1), errWrite)
}

func TestRecorder(t *testing.T) {
	assert := assert.New(t)

	rec := &Recorder{}
	rec.Number(8)
	rec.Char('A')
	rec.Number(9)

	assert.Equal([]Emitted{
		{KIND_NUMBER, 8},
		{KIND_CHAR, 'A'},
		{KIND_NUMBER, 9},
	}, rec.Data)
	assert.Equal([]byte{8, 9}, slices.Collect(rec.Values(KIND_NUMBER)))
	assert.Equal([]byte{'A'}, slices.Collect(rec.Values(KIND_CHAR)))
	assert.Equal("char", KIND_CHAR.String())
	assert.Equal("number", KIND_NUMBER.String())
	assert.Equal("Kind(5)", Kind(5).String())

	rec.Reset()
	assert.Empty(rec.Data)
}
