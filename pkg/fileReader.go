package cluster

import (
	"encoding/binary"
	"fmt"
	"os"
)

// ReadWordStream loads a capture file as little-endian 32-bit words. The
// acquisition writes whole words, but a crashed run may truncate the file
// mid-word; leftover trailing bytes are dropped and reported.
func ReadWordStream(filename string) ([]uint32, int, error) {
	// os.ReadFile keeps reading until EOF; a single Read may legally
	// return short on multi-GiB captures.
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, &ErrOpenFile{Filename: filename, Err: err}
	}

	words, trailing := wordsFromBytes(data)

	if configuration.Verbosity > 0 && logger != nil {
		message := fmt.Sprintf("Read %d words from %s (%d trailing bytes)", len(words), filename, trailing)
		logger.Info(message, "fileReader")
	}
	return words, trailing, nil
}

func wordsFromBytes(data []byte) ([]uint32, int) {
	trailing := len(data) % 4
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, trailing
}

// CountEndOfEvents is a fast pre-scan used to pre-size the event table: the
// number of committed events can never exceed the number of EoE words.
func CountEndOfEvents(words []uint32) int {
	count := 0
	for _, word := range words {
		if word&SignatureMask == EoE {
			count++
		}
	}
	return count
}
