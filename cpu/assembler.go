// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ls8/memory"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the LS-8 system.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Line    []Line // List of generated lines.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	address int // Address of the next generated byte.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reLiteral = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)'`)
	reParen   = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel   = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

// splitWords splits a line on whitespace and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// stripComment removes a ';' comment that is outside of quotes.
func stripComment(text string) string {
	var quote rune
	escape := false
	for n, r := range text {
		switch {
		case escape:
			escape = false
		case quote != 0 && r == '\\':
			escape = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			// pass
		case r == '"' || r == '\'':
			quote = r
		case r == ';':
			return text[:n]
		}
	}
	return text
}

// valueOf returns the byte value of a simple word.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	invert := false
	if len(word) > 1 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}
	v64, err := strconv.ParseInt(word, 0, 16)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xff || v64 < -0x80 {
		err = ErrValueRange
		return
	}

	value = byte(v64)
	if invert {
		value = ^value
	}

	return
}

// registerOf returns the register index for R0-R7, or a plain index.
func (asm *Assembler) registerOf(word string) (index byte, err error) {
	if len(word) > 1 && (word[0] == 'r' || word[0] == 'R') {
		word = word[1:]
	}

	index, err = asm.valueOf(word)
	if err != nil {
		err = ErrRegisterInvalid
		return
	}

	if index >= REG_COUNT {
		err = ErrRegisterInvalid
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, address := range asm.Label {
		if reLabel.MatchString(key) && !strings.Contains(key, ".") {
			pred[key] = starlark.MakeInt(address)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	if st_int64 > 0xff || st_int64 < -0x80 {
		err = ErrValueRange
		return
	}
	value = st_int64
	return
}

// characterOf expands a 'x' literal into its decimal value. Unknown
// escapes are left in place, and fail later as a bad character.
func characterOf(word string) string {
	str := word[1 : len(word)-1]
	if str[0] == '\\' {
		switch str[1:] {
		case "\\":
			str = "\\"
		case "n":
			str = "\n"
		case "r":
			str = "\r"
		case "e":
			str = "\033"
		case "'":
			str = "'"
		case "\"":
			str = "\""
		default:
			return word
		}
	} else if len(str) != 1 {
		return word
	}
	return fmt.Sprintf("%v", str[0])
}

// parseLine parses a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' and "string" evaluations, left to right, so that quotes
	// inside one literal never start another.
	line = reLiteral.ReplaceAllStringFunc(line, func(word string) string {
		if word[0] == '\'' {
			return characterOf(word)
		}
		str, _err := strconv.Unquote(word)
		if _err != nil {
			err = ErrParseCharacter(word)
			return word
		}
		values := make([]string, 0, len(str))
		for _, value := range []byte(str) {
			values = append(values, fmt.Sprintf("%v", value))
		}
		return strings.Join(values, ",")
	})
	if err != nil {
		return
	}

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(words[0]) == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.address
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique per invocation.
		local := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Line = asm.Line[:0]
	asm.address = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _cpu_defines)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Line {
		op := &asm.Line[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		address, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if address > 0xff {
			err = ErrValueRange
			return
		}
		op.Code[len(op.Code)-1] = byte(address)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Line),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var code []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words
	address := asm.address

	defer func() {
		if err != nil || len(code) == 0 {
			return
		}
		if address+len(code) > memory.SIZE {
			err = ErrValueRange
			return
		}
		line := Line{LineNo: lineno, Address: address, Words: initial_words, Code: code, LinkLabel: label}
		asm.Line = append(asm.Line, line)
		asm.address += len(code)
	}()

	switch strings.ToLower(words[0]) {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var org uint64
		org, err = strconv.ParseUint(words[1], 0, 16)
		if err != nil {
			err = ErrParseNumber(words[1])
			return
		}
		if org >= memory.SIZE {
			err = ErrValueRange
			return
		}
		if int(org) < asm.address {
			err = ErrOrgBackwards
			return
		}
		asm.address = int(org)
		return
	case "db", "ds":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value byte
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			code = append(code, value)
		}
		return
	}

	op, ok := LookupMnemonic(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	switch {
	case len(args) < op.Operands():
		err = ErrOpcodeValueMissing
		return
	case len(args) > op.Operands():
		err = ErrOpcodeExtraArgs
		return
	}

	code = append(code, byte(op))
	for n, arg := range args {
		var value byte
		if op == OP_LDI && n == 1 {
			value, err = asm.valueOf(arg)
			if err != nil && reLabel.MatchString(arg) {
				// Linked once all labels are known.
				label = arg
				value = 0
				err = nil
			}
		} else {
			value, err = asm.registerOf(arg)
		}
		if err != nil {
			return
		}
		code = append(code, value)
	}

	return
}
