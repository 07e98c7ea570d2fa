package cluster

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestReadWordStream(t *testing.T) {
	words := []uint32{0x40000000, 0x00000005, 0xC0000007}
	data := make([]byte, 0, len(words)*4+2)
	for _, word := range words {
		data = binary.LittleEndian.AppendUint32(data, word)
	}
	// A crashed run can truncate the capture mid-word.
	data = append(data, 0xAB, 0xCD)

	filename := filepath.Join(t.TempDir(), "run.bin")
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, trailing, err := ReadWordStream(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(words) {
		t.Fatalf("words = %d, want %d", len(got), len(words))
	}
	for i, word := range words {
		if got[i] != word {
			t.Errorf("word %d = 0x%08x, want 0x%08x", i, got[i], word)
		}
	}
	if trailing != 2 {
		t.Errorf("trailing = %d, want 2", trailing)
	}
}

// Every whole word of the input must survive the conversion, whatever the
// byte count; only the sub-word remainder is dropped, and it is counted.
func TestWordsFromBytes(t *testing.T) {
	data := make([]byte, 0, 11)
	for _, word := range []uint32{0x40000000, 0x00000005} {
		data = binary.LittleEndian.AppendUint32(data, word)
	}
	data = append(data, 0x01, 0x02, 0x03)

	for size := 0; size <= len(data); size++ {
		words, trailing := wordsFromBytes(data[:size])
		if len(words) != size/4 {
			t.Errorf("size %d: words = %d, want %d", size, len(words), size/4)
		}
		if trailing != size%4 {
			t.Errorf("size %d: trailing = %d, want %d", size, trailing, size%4)
		}
		if len(words)*4+trailing != size {
			t.Errorf("size %d: %d words + %d trailing bytes do not cover the input",
				size, len(words), trailing)
		}
	}
}

func TestReadWordStreamMissingFile(t *testing.T) {
	_, _, err := ReadWordStream(filepath.Join(t.TempDir(), "missing.bin"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, ok := err.(*ErrOpenFile); !ok {
		t.Errorf("err = %T, want *ErrOpenFile", err)
	}
}

func TestDecodeFile(t *testing.T) {
	words := []uint32{0x40000000, 0x00000005, 0xC0000007}
	data := make([]byte, 0, len(words)*4)
	for _, word := range words {
		data = binary.LittleEndian.AppendUint32(data, word)
	}
	filename := filepath.Join(t.TempDir(), "run.bin")
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := DecodeFile(filename, GetLayout(LayoutReduced), testCalibrationTable(t))
	if err != nil {
		t.Fatal(err)
	}
	if result.Error {
		t.Fatal("unexpected error flag")
	}
	if len(result.Table.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(result.Table.Events))
	}
	if result.Stats.TrailingBytes != 0 {
		t.Errorf("trailing bytes = %d, want 0", result.Stats.TrailingBytes)
	}
}
