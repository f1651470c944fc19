package cpu

import (
	"bytes"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Lines: []Line{
			{LineNo: 2, Pc: 0, Words: []string{"LDI", "R0", "8"}, Bytes: []uint8{0x82, 0x00, 0x08}},
			{LineNo: 3, Pc: 3, Words: []string{"PRN", "R0"}, Bytes: []uint8{0x47, 0x00}},
			{LineNo: 5, Pc: 5, Words: []string{"HLT"}, Bytes: []uint8{0x01}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(4)
	assert.NotNil(dbg.Line)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(5)
	assert.Equal(5, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(6)
	assert.Nil(dbg.Line)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	assert.Equal(6, prog.Size())
	assert.Equal([]uint8{0x82, 0x00, 0x08, 0x47, 0x00, 0x01}, prog.Binary())

	image := maps.Collect(prog.Bytes())
	assert.Len(image, 6)
	assert.Equal(uint8(0x47), image[3])
}

func TestProgram_WriteTo(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	buf := &bytes.Buffer{}
	n, err := prog.WriteTo(buf)
	assert.NoError(err)
	assert.Equal(int64(buf.Len()), n)

	expected := `10000010 # LDI R0 8
00000000
00001000
01000111 # PRN R0
00000000
00000001 # HLT
`
	assert.Equal(expected, buf.String())

	// The written form loads back to the same image.
	ld := &Loader{}
	loaded, err := ld.Parse(buf)
	assert.NoError(err)
	assert.Equal(prog.Binary(), loaded.Binary())
}

func TestDisassembly(t *testing.T) {
	assert := assert.New(t)

	var pcs []uint16
	var texts []string
	for pc, text := range Disassembly(testProgram().Binary()) {
		pcs = append(pcs, pc)
		texts = append(texts, text)
	}

	assert.Equal([]uint16{0, 3, 5}, pcs)
	assert.Equal([]string{"LDI R0,0x08", "PRN R0", "HLT"}, texts)
}
