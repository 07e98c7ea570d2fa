package cluster

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Group is the physical channel family an attribute belongs to. Wires and
// grids are calibrated independently.
type Group int

const (
	GroupNone Group = iota
	Wires
	Grids
)

func (g Group) String() string {
	switch g {
	case Wires:
		return "Wires"
	case Grids:
		return "Grids"
	default:
		return "None"
	}
}

// Attribute describes one decodable channel index of a layout. The raw
// channel field of a Data word indexes directly into LayoutConfig.Attributes.
// Grouped attributes additionally get a calibrated physical channel written
// to ChannelColumns[ChannelColumn].
type Attribute struct {
	Name          string
	Group         Group
	ChannelColumn int // index into ChannelColumns, -1 when not grouped
}

// LayoutConfig is a fixed attribute layout of the detector front-end. The
// two known layouts are built once at package init and never mutated.
type LayoutConfig struct {
	Name           string
	Attributes     []Attribute
	ChannelColumns []string
}

func (l LayoutConfig) AttributeIndex(name string) int {
	return slices.IndexFunc(l.Attributes, func(a Attribute) bool { return a.Name == name })
}

func (l LayoutConfig) ChannelIndex(name string) int {
	return slices.Index(l.ChannelColumns, name)
}

// newLayout derives the structured attribute descriptors from the front-end
// naming convention: an 8-character name (wChADC_n / gChADC_n) marks a
// grouped attribute whose channel column is name[0:3] + name[len-2:], and
// the first letter selects wires or grids.
func newLayout(name string, attributeNames []string, channelNames []string) LayoutConfig {
	layout := LayoutConfig{
		Name:           name,
		Attributes:     make([]Attribute, len(attributeNames)),
		ChannelColumns: channelNames,
	}
	for i, attrName := range attributeNames {
		attribute := Attribute{Name: attrName, Group: GroupNone, ChannelColumn: -1}
		if len(attrName) == 8 {
			if strings.HasPrefix(attrName, "w") {
				attribute.Group = Wires
			} else {
				attribute.Group = Grids
			}
			channelName := attrName[0:3] + attrName[len(attrName)-2:]
			attribute.ChannelColumn = slices.Index(channelNames, channelName)
		}
		layout.Attributes[i] = attribute
	}
	return layout
}

var reducedLayout = newLayout("reduced",
	[]string{
		"wADC_1", "wADC_2", "wChADC_1", "wChADC_2",
		"gADC_1", "gADC_2", "gChADC_1", "gChADC_2",
	},
	[]string{"wCh_1", "wCh_2", "gCh_1", "gCh_2"},
)

var fullLayout = newLayout("full",
	[]string{
		"gADC_1", "gADC_2", "gChADC_1", "gChADC_2",
		"wADC_1", "wADC_2", "wChADC_1", "wChADC_2",
		"wADC_3", "wADC_4", "wChADC_3", "wChADC_4",
	},
	[]string{"wCh_1", "wCh_2", "wCh_3", "wCh_4", "gCh_1", "gCh_2"},
)

// LayoutCode selects one of the two fixed front-end layouts.
type LayoutCode int

const (
	LayoutReduced LayoutCode = iota
	LayoutFull
)

var layoutStrings = []string{
	"reduced",
	"full",
}

func (l LayoutCode) String() string {
	if l < LayoutReduced || l > LayoutFull {
		return "UNKNOWN"
	}
	return layoutStrings[l]
}

func (l LayoutCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *LayoutCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, v := range layoutStrings {
		if v == s {
			*l = LayoutCode(i)
			return nil
		}
	}
	return fmt.Errorf("invalid LayoutCode: %s", s)
}

// GetLayout returns the fixed layout for a selector code.
func GetLayout(code LayoutCode) LayoutConfig {
	if code == LayoutReduced {
		return reducedLayout
	}
	return fullLayout
}
