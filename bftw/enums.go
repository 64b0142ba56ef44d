package bftw

import (
	"reflect"

	"github.com/JeffreyRichter/enum/enum"
)

// Type is the type of a file as reported to the callback. It mirrors
// bfs_type from the original implementation, including the WHT pseudo-type
// used for union-filesystem whiteouts.
type Type uint8

const (
	typeUnknown Type = iota
	typeReg
	typeDir
	typeLnk
	typeBlk
	typeChr
	typeFifo
	typeSock
	typeDoor
	typePort
	typeWht
	typeError
)

// EType is the symbol table for Type, following the enum package idiom used
// throughout this module for its small closed enumerations.
var EType = Type(typeUnknown)

func (Type) Unknown() Type { return typeUnknown }
func (Type) Reg() Type     { return typeReg }
func (Type) Dir() Type     { return typeDir }
func (Type) Lnk() Type     { return typeLnk }
func (Type) Blk() Type     { return typeBlk }
func (Type) Chr() Type     { return typeChr }
func (Type) Fifo() Type    { return typeFifo }
func (Type) Sock() Type    { return typeSock }
func (Type) Door() Type    { return typeDoor }
func (Type) Port() Type    { return typePort }
func (Type) Wht() Type     { return typeWht }
func (Type) Error() Type   { return typeError }

func (t Type) String() string {
	switch t {
	case EType.Unknown():
		return "UNKNOWN"
	case EType.Reg():
		return "REG"
	case EType.Dir():
		return "DIR"
	case EType.Lnk():
		return "LNK"
	case EType.Blk():
		return "BLK"
	case EType.Chr():
		return "CHR"
	case EType.Fifo():
		return "FIFO"
	case EType.Sock():
		return "SOCK"
	case EType.Door():
		return "DOOR"
	case EType.Port():
		return "PORT"
	case EType.Wht():
		return "WHT"
	case EType.Error():
		return "ERROR"
	default:
		return enum.StringInt(t, reflect.TypeOf(t))
	}
}

// Visit distinguishes the pre-order and post-order callback invocations for
// a single file record.
type Visit uint8

const (
	visitPre Visit = iota
	visitPost
)

var EVisit = Visit(visitPre)

func (Visit) Pre() Visit  { return visitPre }
func (Visit) Post() Visit { return visitPost }

func (v Visit) String() string {
	switch v {
	case EVisit.Pre():
		return "PRE"
	case EVisit.Post():
		return "POST"
	default:
		return enum.StringInt(v, reflect.TypeOf(v))
	}
}

// Action is the value a Callback returns to steer the walk.
type Action uint8

const (
	actionContinue Action = iota
	actionPrune
	actionStop
)

var EAction = Action(actionContinue)

func (Action) Continue() Action { return actionContinue }
func (Action) Prune() Action    { return actionPrune }
func (Action) Stop() Action     { return actionStop }

func (a Action) String() string {
	switch a {
	case EAction.Continue():
		return "CONTINUE"
	case EAction.Prune():
		return "PRUNE"
	case EAction.Stop():
		return "STOP"
	default:
		return enum.StringInt(a, reflect.TypeOf(a))
	}
}

// Strategy selects the search strategy driving the walk.
type Strategy uint8

const (
	// BFS visits files in strict breadth-first order: for any two entries
	// a, b delivered in order, a.Depth <= b.Depth.
	BFS Strategy = iota
	// DFS interleaves discovery and visitation depth-first: no entry is
	// delivered between a directory's PRE visit and the PRE/POST visits of
	// its descendants.
	DFS
	// IDS is iterative deepening: repeated bounded-depth BFS/DFS passes
	// that widen the depth bound by one each round.
	IDS
	// EDS is exponential deepening: like IDS, but the depth bound doubles
	// each round instead of incrementing.
	EDS
)

var EStrategy = Strategy(BFS)

func (Strategy) Bfs() Strategy { return BFS }
func (Strategy) Dfs() Strategy { return DFS }
func (Strategy) Ids() Strategy { return IDS }
func (Strategy) Eds() Strategy { return EDS }

func (s Strategy) String() string {
	switch s {
	case EStrategy.Bfs():
		return "BFS"
	case EStrategy.Dfs():
		return "DFS"
	case EStrategy.Ids():
		return "IDS"
	case EStrategy.Eds():
		return "EDS"
	default:
		return enum.StringInt(s, reflect.TypeOf(s))
	}
}

// Flags is a bitmask of walk options. The Contains/Add/Remove helpers are a
// concrete specialization of the generic BitflagsContainAll/BitflagsAdd/
// BitflagsRemove helpers the teacher defines over constraints.Unsigned; this
// module only ever has one flags type, so the generic form wasn't carried
// over (see DESIGN.md).
type Flags uint32

const (
	// STAT forces a stat() call for every file, even when the type can be
	// determined some other way (e.g. from readdir's d_type).
	STAT Flags = 1 << iota
	// RECOVER delivers per-entry errors to the callback as Type Error
	// instead of aborting the walk on the first one.
	RECOVER
	// POST_ORDER requests a second, post-order callback invocation for
	// each directory, after all of its descendants have been visited.
	POST_ORDER
	// SORT delivers siblings within one directory in strcoll (here,
	// plain byte) order instead of readdir order.
	SORT
	// BUFFER forces every file to be buffered (see bftw_must_buffer)
	// rather than visited inline, regardless of strategy/threading.
	BUFFER
	// FOLLOW_ROOTS follows symlinks named directly as a starting path.
	FOLLOW_ROOTS
	// FOLLOW_ALL follows symlinks encountered at any depth.
	FOLLOW_ALL
	// DETECT_CYCLES aborts a subtree with ELOOP when a directory's
	// (dev, ino) matches one of its own ancestors.
	DETECT_CYCLES
	// SKIP_MOUNTS prunes any entry whose device differs from its parent's.
	SKIP_MOUNTS
	// PRUNE_MOUNTS still visits entries on other devices, but does not
	// descend into them even if the callback returns Continue.
	PRUNE_MOUNTS
	// WHITEOUTS reports union-filesystem whiteout markers with Type Wht
	// instead of silently skipping them.
	WHITEOUTS
)

// Contains reports whether flags has every bit in test set.
func (flags Flags) Contains(test Flags) bool {
	return flags&test == test
}

// ContainsAny reports whether flags has any bit in test set.
func (flags Flags) ContainsAny(test Flags) bool {
	return flags&test != 0
}

// Add returns flags with every bit in more also set.
func (flags Flags) Add(more Flags) Flags {
	return flags | more
}

// Remove returns flags with every bit in less cleared.
func (flags Flags) Remove(less Flags) Flags {
	return flags &^ less
}
