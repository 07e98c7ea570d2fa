package cluster

import "testing"

func TestClassifyHeader(t *testing.T) {
	decoded := Classify(0x40A50000)
	if decoded.Kind != WordHeader {
		t.Fatalf("kind = %v, want Header", decoded.Kind)
	}
	if decoded.Module != 0xA5 {
		t.Errorf("module = 0x%02x, want 0xA5", decoded.Module)
	}
}

func TestClassifyData(t *testing.T) {
	decoded := Classify(0x00051234)
	if decoded.Kind != WordData {
		t.Fatalf("kind = %v, want Data", decoded.Kind)
	}
	if decoded.Channel != 5 {
		t.Errorf("channel = %d, want 5", decoded.Channel)
	}
	if decoded.ADC != 0x1234 {
		t.Errorf("adc = 0x%04x, want 0x1234", decoded.ADC)
	}
}

func TestClassifyEndOfEvent(t *testing.T) {
	decoded := Classify(0xC0000007)
	if decoded.Kind != WordEoE {
		t.Fatalf("kind = %v, want EoE", decoded.Kind)
	}
	if decoded.TimeOfFlight != 7 {
		t.Errorf("tof = %d, want 7", decoded.TimeOfFlight)
	}
	// The timestamp field spans the full 30 low bits.
	decoded = Classify(0xFFFFFFFF)
	if decoded.Kind != WordEoE || decoded.TimeOfFlight != 0x3FFFFFFF {
		t.Errorf("tof = 0x%08x, want 0x3FFFFFFF", decoded.TimeOfFlight)
	}
}

func TestClassifyOther(t *testing.T) {
	decoded := Classify(0x80000000)
	if decoded.Kind != WordOther {
		t.Fatalf("kind = %v, want Other", decoded.Kind)
	}
}

// Channel extraction must be bit exact at field boundaries.
func TestChannelExtraction(t *testing.T) {
	cases := []struct {
		word    uint32
		channel uint8
	}{
		{0x00000FFF, 0},
		{0x000F3FFF, 15},
		{0x001F0000, 31},
	}
	for _, c := range cases {
		decoded := Classify(c.word)
		if decoded.Kind != WordData {
			t.Fatalf("word 0x%08x: kind = %v, want Data", c.word, decoded.Kind)
		}
		if decoded.Channel != c.channel {
			t.Errorf("word 0x%08x: channel = %d, want %d", c.word, decoded.Channel, c.channel)
		}
	}
}

// Classify is pure and total: every input maps to exactly one kind and
// re-classifying gives the same result.
func TestClassifyIdempotent(t *testing.T) {
	words := []uint32{0, 0x40000000, 0x80000000, 0xC0000000, 0x12345678, 0xFFFFFFFF}
	for _, word := range words {
		first := Classify(word)
		second := Classify(word)
		if first != second {
			t.Errorf("word 0x%08x: %+v != %+v", word, first, second)
		}
		switch first.Kind {
		case WordHeader, WordData, WordEoE, WordOther:
		default:
			t.Errorf("word 0x%08x: unexpected kind %d", word, first.Kind)
		}
	}
}
