package bftw

import (
	"container/list"
	"syscall"
)

// cacheEntry is the intrusive LRU linkage for a file with an open fd, plus
// the pieces of open state the cache manages directly: the fd itself and
// a pin count that keeps it off the LRU while it's in use as an openat
// base (spec.md §4.1, §5 "an fd pinned as an openat(2) base is never
// evicted").
type cacheEntry struct {
	fd       int
	pincount int
	elem     *list.Element // this entry's node in cache.lru, nil while pinned
}

// cache is the open-directory-descriptor LRU described in spec.md §4.1:
// bounded by capacity, evicting least-recently-used unpinned entries first
// to stay within the process fd budget. Grounded on struct bftw_cache in
// the original implementation and adapted to Go's GC (no arenas: files and
// stat buffers are ordinary heap objects, collected when unreferenced).
type cache struct {
	lru      *list.List // *file, ordered least-to-most recently used at Front
	capacity int        // remaining number of fds this cache may hold open
}

func newCache(capacity int) *cache {
	if capacity < 1 {
		capacity = 1
	}
	return &cache{lru: list.New(), capacity: capacity}
}

// add registers f (which must already have cache.fd set) with the LRU,
// evicting the least-recently-used unpinned entry first if the cache is
// full.
func (c *cache) add(f *file) error {
	if c.capacity == 0 {
		if err := c.evict(); err != nil {
			c.closeEntry(f)
			return wrapErr("open", pathHint(f), syscall.EMFILE)
		}
	}
	c.capacity--
	f.cache.elem = c.lru.PushBack(f)
	return nil
}

// evict closes the least-recently-used unpinned file's descriptor,
// freeing one unit of capacity. Returns an error if the LRU has no
// evictable (unpinned) entries left.
func (c *cache) evict() error {
	e := c.lru.Front()
	if e == nil {
		return errEmptyCache
	}
	c.closeEntry(e.Value.(*file))
	return nil
}

// closeEntry closes f's fd (and, if materialized, its directory stream),
// detaches it from the cache, and frees the capacity unit it held. f.cache.fd
// is left at -1. Capacity accounting lives here rather than in evict/release
// separately so that every path that actually closes an fd credits the
// budget back exactly once.
func (c *cache) closeEntry(f *file) {
	if f.cache == nil || f.cache.fd < 0 {
		return
	}
	closeFd(f.cache.fd)
	f.cache.fd = -1
	if f.cache.elem != nil {
		c.lru.Remove(f.cache.elem)
		f.cache.elem = nil
	}
	c.capacity++
}

// detachForAsyncClose removes f from the cache's bookkeeping (LRU linkage,
// capacity accounting) immediately and returns its fd for the caller to
// close asynchronously. Unlike closeEntry, it does not itself call
// closeFd: it exists so the capacity it frees is available to a
// concurrent openDir before the close(2) syscall has actually completed.
func (c *cache) detachForAsyncClose(f *file) int {
	fd := f.cache.fd
	f.cache.fd = -1
	if f.cache.elem != nil {
		c.lru.Remove(f.cache.elem)
		f.cache.elem = nil
	}
	c.capacity++
	return fd
}

// pin removes f from the LRU (without closing it) so that it cannot be
// evicted while in use as an openat(2) base directory.
func (c *cache) pin(f *file) {
	if f.cache == nil {
		return
	}
	if f.cache.pincount == 0 && f.cache.elem != nil {
		c.lru.Remove(f.cache.elem)
		f.cache.elem = nil
		c.capacity++
	}
	f.cache.pincount++
}

// unpin reverses a pin; once the pin count reaches zero, f rejoins the
// LRU as the most-recently-used entry.
func (c *cache) unpin(f *file) {
	if f.cache == nil || f.cache.pincount == 0 {
		return
	}
	f.cache.pincount--
	if f.cache.pincount == 0 && f.cache.fd >= 0 {
		if c.capacity == 0 {
			c.evict() //nolint:errcheck // best effort; reserve() already guaranteed room
		}
		c.capacity--
		f.cache.elem = c.lru.PushBack(f)
	}
}

// reserve ensures the cache has room for one more open fd, evicting LRU
// entries as needed. Call before opening a new directory so that the
// open+add pair can't exceed the fd budget even transiently.
func (c *cache) reserve() error {
	if c.capacity > 0 {
		return nil
	}
	return c.evict()
}

var errEmptyCache = wrapErr("open", "", syscall.EMFILE)

// openRelativeDir opens f's directory relative to the nearest open
// ancestor's fd (spec.md §4.1 "open-relative algorithm"), falling back to
// a component-by-component reopen of the parent chain when the kernel
// rejects the relative open with ENAMETOOLONG — restoring
// bftw_file_open's fallback loop from the original implementation, which
// the distilled spec only summarized.
func openRelativeDir(f *file) (int, error) {
	base, baseFd, err := nearestOpenAncestor(f)
	if err != nil {
		return -1, err
	}
	relName, err := pathFrom(base, f)
	if err != nil {
		return -1, err
	}

	fd, err := openatDir(baseFd, relName)
	if err == nil {
		return fd, nil
	}
	if !isENAMETOOLONG(err) {
		return -1, err
	}

	// Component-by-component fallback: reopen each ancestor from the
	// absolute root, one openat() at a time, so that no single syscall
	// argument exceeds PATH_MAX / NAME_MAX.
	full, err := buildPath(f)
	if err != nil {
		return -1, err
	}
	return openComponentwise(full)
}

// openComponentwise reopens path one path component at a time starting
// from AT_FDCWD, used only on the ENAMETOOLONG slow path.
func openComponentwise(path string) (int, error) {
	opened := atFDCWD
	components := splitPath(path)
	for _, comp := range components {
		fd, err := openatDir(opened, comp)
		if opened != atFDCWD {
			closeFd(opened)
		}
		if err != nil {
			return -1, err
		}
		opened = fd
	}
	if opened == atFDCWD {
		return -1, syscall.EINVAL
	}
	return opened, nil
}
