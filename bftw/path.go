package bftw

import "strings"

// buildPath reconstructs the full path to f by walking its parent chain.
// Spec.md §4.5 calls for minimizing rewritten bytes by sharing the longest
// common ancestor with whatever path was last built; that optimization
// lives in pathBuilder below. buildPath is the simple, non-incremental
// form used by the ENAMETOOLONG slow path and anywhere else a one-off
// full path is needed.
func buildPath(f *file) (string, error) {
	var segs []string
	for cur := f; cur != nil; cur = cur.parent {
		segs = append(segs, cur.name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return joinSegments(segs), nil
}

func joinSegments(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	out := segs[0]
	for _, s := range segs[1:] {
		if !strings.HasSuffix(out, "/") {
			out += "/"
		}
		out += s
	}
	return out
}

// splitPath breaks an absolute or relative path into openat-able
// components, used by openComponentwise.
func splitPath(path string) []string {
	abs := strings.HasPrefix(path, "/")
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts)+1)
	if abs {
		out = append(out, "/")
	}
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// pathHint returns the best-effort path for f, for use in error messages
// where an exact reconstruction isn't worth the cost.
func pathHint(f *file) string {
	if f == nil {
		return ""
	}
	p, err := buildPath(f)
	if err != nil {
		return f.name
	}
	return p
}

// nearestOpenAncestor walks up from f's parent (never f itself) to find
// the nearest proper ancestor that has a live cache fd, returning that
// ancestor and its fd. If no ancestor is open it returns (nil, AT_FDCWD),
// and pathFrom then yields f's full path.
func nearestOpenAncestor(f *file) (*file, int, error) {
	for cur := f.parent; cur != nil; cur = cur.parent {
		if cur.cache != nil && cur.cache.fd >= 0 {
			return cur, cur.cache.fd, nil
		}
	}
	return nil, atFDCWD, nil
}

// pathFrom computes f's path relative to base (an ancestor of f, or nil
// for f's walk root), the string handed to openat(2) against base's fd.
func pathFrom(base *file, f *file) (string, error) {
	var segs []string
	for cur := f; cur != base; cur = cur.parent {
		if cur == nil {
			return buildPath(f)
		}
		segs = append(segs, cur.name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return joinSegments(segs), nil
}

// pathBuilder incrementally reconstructs paths across a sequence of
// visits, reusing the longest common prefix with the previously built
// path instead of rebuilding from scratch every time (spec.md §4.5).
type pathBuilder struct {
	path string
	cur  *file
}

// build returns the full path to f, amortizing the cost against whatever
// path was most recently built by this builder.
func (pb *pathBuilder) build(f *file) string {
	if pb.cur == f {
		return pb.path
	}

	// Find the chain of ancestors from f up to (but not including) the
	// deepest ancestor shared with pb.cur, then splice that onto the
	// shared prefix of pb.path.
	var chain []*file
	target := f
	for target != nil && !pb.onPath(target) {
		chain = append(chain, target)
		target = target.parent
	}

	base := ""
	if target != nil {
		base = pb.prefixFor(target)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	names := make([]string, 0, len(chain)+1)
	if base != "" {
		names = append(names, base)
	}
	for _, c := range chain {
		names = append(names, c.name)
	}

	built := joinSegments(names)
	pb.path = built
	pb.cur = f
	return built
}

// onPath reports whether target is pb.cur or an ancestor of pb.cur,
// i.e. whether its path is a known prefix of pb.path.
func (pb *pathBuilder) onPath(target *file) bool {
	for cur := pb.cur; cur != nil; cur = cur.parent {
		if cur == target {
			return true
		}
	}
	return target == nil && pb.cur == nil
}

// prefixFor returns the already-known path string for target, an
// ancestor of pb.cur (or pb.cur itself).
func (pb *pathBuilder) prefixFor(target *file) string {
	if target == pb.cur {
		return pb.path
	}
	// Walk pb.cur back up to target, trimming one path component (plus
	// separator) per step from the end of pb.path.
	trimmed := pb.path
	for cur := pb.cur; cur != nil && cur != target; cur = cur.parent {
		idx := strings.LastIndexByte(trimmed, '/')
		if idx < 0 {
			trimmed = ""
		} else {
			trimmed = trimmed[:idx]
		}
	}
	return trimmed
}
