package bftw

// mountTable records which device numbers a walk has crossed onto. Unlike
// bfs's own mtab reader (which parses /proc/mounts or getmntinfo()), this
// engine only asks "did the device number change from parent to child"
// (crossesMount), which is cheap and portable; SKIP_MOUNTS/PRUNE_MOUNTS
// decide from that alone. The crossed set is only used so that visitOne
// logs each newly crossed device once.
type mountTable struct {
	crossed map[uint64]bool // dev -> true once a crossing onto it was recorded
}

func newMountTable() *mountTable {
	return &mountTable{crossed: make(map[uint64]bool)}
}

// crossesMount reports whether moving from a directory on parentDev to an
// entry on childDev crosses a filesystem boundary.
func (m *mountTable) crossesMount(parentDev, childDev uint64) bool {
	return parentDev != childDev
}

// recordCrossing notes that dev was reached via a mount crossing, so that
// wasCrossed reports it from then on.
func (m *mountTable) recordCrossing(dev uint64) {
	m.crossed[dev] = true
}

func (m *mountTable) wasCrossed(dev uint64) bool {
	return m.crossed[dev]
}
