package cluster

// Mesytec VMMR readout format. Every word is 32 bits and carries its record
// kind in the two most significant bits.
const (
	SignatureMask    uint32 = 0xC0000000 // 1100 0000 0000 0000 0000 0000 0000 0000
	SubSignatureMask uint32 = 0x3FE00000 // 0011 1111 1110 0000 0000 0000 0000 0000

	ModuleMask    uint32 = 0x00FF0000 // 0000 0000 1111 1111 0000 0000 0000 0000
	ChannelMask   uint32 = 0x001F0000 // 0000 0000 0001 1111 0000 0000 0000 0000
	ADCMask       uint32 = 0x00003FFF // 0000 0000 0000 0000 0011 1111 1111 1111
	ExTsMask      uint32 = 0x0000FFFF // 0000 0000 0000 0000 1111 1111 1111 1111
	TimeStampMask uint32 = 0x3FFFFFFF // 0011 1111 1111 1111 1111 1111 1111 1111
	WordCountMask uint32 = 0x00000FFF // 0000 0000 0000 0000 0000 1111 1111 1111
)

// Signatures selected by SignatureMask.
const (
	Header uint32 = 0x40000000 // 0100 0000 0000 0000 0000 0000 0000 0000
	Data   uint32 = 0x00000000 // 0000 0000 0000 0000 0000 0000 0000 0000
	EoE    uint32 = 0xC0000000 // 1100 0000 0000 0000 0000 0000 0000 0000
)

// Sub-signatures selected by SubSignatureMask. The clustering only needs the
// top-level signature, but the fields are part of the wire format.
const (
	DataEvent uint32 = 0x04000000 // 0000 0100 0000 0000 0000 0000 0000 0000
	DataExTs  uint32 = 0x04800000 // 0000 0100 1000 0000 0000 0000 0000 0000
)

const (
	ChannelShift = 16
	ModuleShift  = 16
	ExTsShift    = 30
)

type WordKind int

const (
	WordOther WordKind = iota
	WordHeader
	WordData
	WordEoE
)

func (k WordKind) String() string {
	switch k {
	case WordHeader:
		return "Header"
	case WordData:
		return "Data"
	case WordEoE:
		return "EoE"
	default:
		return "Other"
	}
}

// DecodedWord holds the fields extracted from one word. Only the fields
// belonging to Kind are meaningful.
type DecodedWord struct {
	Kind         WordKind
	Module       uint8
	Channel      uint8
	ADC          uint16
	TimeOfFlight uint32
}

// Classify extracts the record kind and its fields from a raw word. It is a
// pure function: every 32-bit input maps to exactly one kind.
func Classify(word uint32) DecodedWord {
	switch word & SignatureMask {
	case Header:
		return DecodedWord{
			Kind:   WordHeader,
			Module: uint8((word & ModuleMask) >> ModuleShift),
		}
	case Data:
		return DecodedWord{
			Kind:    WordData,
			Channel: uint8((word & ChannelMask) >> ChannelShift),
			ADC:     uint16(word & ADCMask),
		}
	case EoE:
		return DecodedWord{
			Kind:         WordEoE,
			TimeOfFlight: word & TimeStampMask,
		}
	}
	return DecodedWord{Kind: WordOther}
}
