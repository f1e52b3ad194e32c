package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Line is a line of source with its address and generated code bytes.
type Line struct {
	LineNo    int
	Address   int
	Words     []string
	Code      []byte
	LinkLabel string // Label whose address replaces the last code byte.
}

// Program is an assembled or loaded LS-8 memory image.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug returns the line that generated the byte at address.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, line := range prog.Lines {
		if address >= line.Address && address < line.Address+len(line.Code) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: address - line.Address,
			}
			break
		}
	}

	return
}

// Code iterates over every address and byte of the program.
func (prog *Program) Code() iter.Seq2[int, byte] {
	return func(yield func(address int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Code {
				if !yield(line.Address+n, value) {
					return
				}
			}
		}
	}
}

// Binary returns the memory image from address 0, zero filling gaps.
func (prog *Program) Binary() (bin []byte) {
	for address, value := range prog.Code() {
		if address >= len(bin) {
			bin = append(bin, make([]byte, address+1-len(bin))...)
		}
		bin[address] = value
	}

	return
}

// ReadListing reads an .ls8 listing: one byte per line written as eight
// binary digits. Text after '#' and blank lines are ignored.
func ReadListing(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var text string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
		}
	}()

	prog = &Program{}
	address := 0
	for scanner.Scan() {
		text = scanner.Text()
		lineno++

		word, _, _ := strings.Cut(text, "#")
		word = strings.TrimSpace(word)
		if len(word) == 0 {
			continue
		}

		if len(word) != 8 {
			err = ErrListingSyntax
			return
		}
		var value uint64
		value, err = strconv.ParseUint(word, 2, 8)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo:  lineno,
			Address: address,
			Words:   []string{word},
			Code:    []byte{byte(value)},
		})
		address++
	}

	err = scanner.Err()

	return
}

// WriteListing writes the program as an .ls8 listing. The first byte
// of each source line carries the source as a comment.
func (prog *Program) WriteListing(output io.Writer) (err error) {
	comment := map[int]string{}
	for _, line := range prog.Lines {
		if len(line.Code) > 0 {
			comment[line.Address] = strings.Join(line.Words, " ")
		}
	}

	w := bufio.NewWriter(output)
	for address, value := range prog.Binary() {
		text, ok := comment[address]
		if ok {
			_, err = fmt.Fprintf(w, "%08b # %v\n", value, text)
		} else {
			_, err = fmt.Fprintf(w, "%08b\n", value)
		}
		if err != nil {
			return
		}
	}

	err = w.Flush()
	return
}
