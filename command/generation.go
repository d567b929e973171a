package command

// Generation identifies a meter device family. It selects which payload
// encoding a command uses.
type Generation int

const (
	GenerationUnknown Generation = iota
	GenerationOld
	GenerationTransition
	GenerationNew
)

func (g Generation) String() string {
	switch g {
	case GenerationOld:
		return "old"
	case GenerationTransition:
		return "transition"
	case GenerationNew:
		return "new"
	default:
		return "unknown"
	}
}

// RoleGateThreshold is the opaque role-byte threshold that gates Transition
// and New generation detection. The value is carried from the meter
// firmware's own convention without further rationale.
const RoleGateThreshold = 0x32

var oldBoardIDs = map[byte]bool{
	0x01: true, 0x02: true, 0x03: true, 0x04: true,
	0x0C: true, 0x0D: true, 0x11: true, 0x12: true,
}

var transitionBoardIDs = map[byte]bool{
	0x07: true, 0x08: true, 0x0A: true, 0x0B: true,
}

var newBoardIDs = map[byte]bool{
	0x09: true, 0x0E: true, 0x0F: true, 0x10: true,
	0x20: true, 0x21: true, 0x22: true,
}

// DetermineGeneration maps a board ID and role byte to a Generation using
// the fixed board-ID tables above, gating Transition and New behind
// RoleGateThreshold.
func DetermineGeneration(boardID, role byte) Generation {
	switch {
	case oldBoardIDs[boardID]:
		return GenerationOld
	case transitionBoardIDs[boardID] && role >= RoleGateThreshold:
		return GenerationTransition
	case newBoardIDs[boardID] && role >= RoleGateThreshold:
		return GenerationNew
	default:
		return GenerationUnknown
	}
}

// DetermineGenerationFromResponseSize auto-detects a GetInfo responder's
// generation purely from the size of its response payload: 28 bytes or
// more is New, otherwise Transition. Old and Transition share the 27-byte
// layout, so a size alone never yields GenerationOld.
func DetermineGenerationFromResponseSize(n int) Generation {
	if n >= 28 {
		return GenerationNew
	}
	return GenerationTransition
}
