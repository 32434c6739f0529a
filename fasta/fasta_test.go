package fasta

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuftsBCB/rama/pdb"
	"github.com/TuftsBCB/rama/pdb/pdbtest"
)

const testInput = `>1abcA helix
MQFSTVASIAAIAAVASAASNITTATVTEESTTLVTITSCEDHVCSETVSPALVSTATVT
VNDVIT

>1abcB
acdef-ghik*
>empty
`

func TestRead(t *testing.T) {
	entries, err := NewReader(strings.NewReader(testInput)).ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "1abcA helix", entries[0].Header)
	require.Equal(t, "MQFSTVASIAAIAAVASAASNITTATVTEESTTLVTITSCEDHVCSETVSPALVSTATVT"+
		"VNDVIT", string(entries[0].Sequence))
	require.Equal(t, "1abcB", entries[1].Header)
	require.Equal(t, "ACDEF-GHIK*", string(entries[1].Sequence))
	require.Equal(t, "empty", entries[2].Header)
	require.Empty(t, entries[2].Sequence)
}

func TestReadErrors(t *testing.T) {
	_, err := NewReader(strings.NewReader("MKV\n")).ReadAll()
	require.ErrorContains(t, err, "line 1")

	_, err = NewReader(strings.NewReader(">a\nMK1V\n")).ReadAll()
	require.ErrorContains(t, err, "line 2")

	entries, err := NewReader(strings.NewReader("\n\n")).ReadAll()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestReadWrite(t *testing.T) {
	entries, err := NewReader(strings.NewReader(testInput)).ReadAll()
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, NewWriter(buf).WriteAll(entries))

	again, err := NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, entries, again)
}

func TestStringCols(t *testing.T) {
	e := Entry{Header: "x", Sequence: []byte("ABCDEFG")}
	require.Equal(t, ">x\nABC\nDEF\nG", e.StringCols(3))
	require.Equal(t, ">x\nABCDEFG", e.StringCols(0))
	require.Equal(t, ">x\nABCDEFG", e.String())
	require.Equal(t, ">x", Entry{Header: "x"}.StringCols(3))
}

func TestChains(t *testing.T) {
	h := pdbtest.Angles{Phi: -60, Psi: -45}
	fp, err := pdbtest.WriteFile(t.TempDir(), "model.pdb",
		pdbtest.Ideal('A', "GLY", h, h, h),
		pdbtest.Ideal('B', "TRP", h, h))
	require.NoError(t, err)

	entry, err := pdb.Read(fp, pdb.Options{})
	require.NoError(t, err)
	entries := Chains(entry)
	require.Equal(t, []Entry{
		{Header: "modelA", Sequence: []byte("GGG")},
		{Header: "modelB", Sequence: []byte("WW")},
	}, entries)

	out, err := os.Create(fp + ".fasta")
	require.NoError(t, err)
	defer out.Close()
	require.NoError(t, NewWriter(out).WriteAll(entries))
}

func ExampleEntry_StringCols() {
	e := Entry{Header: "1abcA", Sequence: []byte("MKVLAAGIVG")}
	fmt.Println(e.StringCols(4))

	// Output:
	// >1abcA
	// MKVL
	// AAGI
	// VG
}
