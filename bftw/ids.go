package bftw

// idsRound wraps a delegate Callback with the iterative/exponential
// deepening bookkeeping described in spec.md §4.7: entries shallower than
// minDepth are passed through only if an earlier round didn't already
// prune them, directories at exactly maxDepth-1 are pruned for this round
// (marking *bottom false so the caller knows to keep widening), and a
// callback-requested Prune is remembered in pruned so later, deeper
// rounds don't re-descend into it. Ported from bftw_ids_callback.
type idsRound struct {
	delegate     Callback
	forcedVisit  Visit // overrides Entry.Visit when forcing, e.g. the post pass
	forceVisit   bool
	minDepth     int
	maxDepth     int
	pruned       *pathTrie
	bottom       *bool // set false if this round wasn't deep enough yet
}

func (r *idsRound) callback(e *Entry) Action {
	if r.forceVisit {
		e.Visit = r.forcedVisit
	}

	if e.Type == EType.Error() {
		if e.Depth+1 >= r.minDepth {
			return r.delegate(e)
		}
		return EAction.Prune()
	}

	if e.Depth < r.minDepth {
		if r.pruned.contains(e.Path) {
			return EAction.Prune()
		}
		return EAction.Continue()
	}
	if r.forcedVisit == EVisit.Post() && r.pruned.contains(e.Path) {
		return EAction.Prune()
	}

	ret := r.delegate(e)

	switch ret {
	case EAction.Continue():
		if e.Type == EType.Dir() && e.Depth+1 >= r.maxDepth {
			if r.bottom != nil {
				*r.bottom = false
			}
			ret = EAction.Prune()
		}
	case EAction.Prune():
		if e.Type == EType.Dir() {
			r.pruned.insert(e.Path)
		}
	}

	return ret
}

// walkIDS implements the IDS strategy: repeated bounded-depth passes that
// widen by one level at a time, followed by a mirror-image series of
// narrowing passes to deliver POST visits in the same depth order, if
// POST_ORDER was requested. Ported from bftw_ids.
func walkIDS(args Args) error {
	minDepth, maxDepth := 0, 1
	pruned := newPathTrie()
	delegate := args.Callback

	round := args
	round.Flags = args.Flags.Remove(POST_ORDER)

	for {
		bottom := true
		r := &idsRound{delegate: delegate, pruned: pruned, minDepth: minDepth, maxDepth: maxDepth, bottom: &bottom}
		round.Callback = r.callback
		if err := walkOnce(round); err != nil {
			return err
		}
		if bottom {
			break
		}
		minDepth++
		maxDepth++
	}

	if !args.Flags.Contains(POST_ORDER) {
		return nil
	}

	for minDepth > 0 {
		maxDepth--
		minDepth--
		r := &idsRound{
			delegate:    delegate,
			pruned:      pruned,
			minDepth:    minDepth,
			maxDepth:    maxDepth,
			forcedVisit: EVisit.Post(),
			forceVisit:  true,
		}
		round.Callback = r.callback
		if err := walkOnce(round); err != nil {
			return err
		}
	}
	return nil
}

// walkEDS implements the EDS strategy: like IDS, but the depth bound
// doubles each round instead of incrementing, trading a few redundant
// shallow re-visits for far fewer total rounds on deep trees. Ported from
// bftw_eds.
func walkEDS(args Args) error {
	minDepth, maxDepth := 0, 1
	pruned := newPathTrie()
	delegate := args.Callback

	round := args
	round.Flags = args.Flags.Remove(POST_ORDER)

	for {
		bottom := true
		r := &idsRound{delegate: delegate, pruned: pruned, minDepth: minDepth, maxDepth: maxDepth, bottom: &bottom}
		round.Callback = r.callback
		if err := walkOnce(round); err != nil {
			return err
		}
		if bottom {
			break
		}
		minDepth = maxDepth
		maxDepth *= 2
	}

	if !args.Flags.Contains(POST_ORDER) {
		return nil
	}

	round.Flags = args.Flags
	r := &idsRound{
		delegate:    delegate,
		pruned:      pruned,
		minDepth:    0,
		maxDepth:    maxDepth,
		forcedVisit: EVisit.Post(),
		forceVisit:  true,
	}
	round.Callback = r.callback
	return walkOnce(round)
}
