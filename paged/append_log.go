package paged

const initialAppendLogCap = 4096

// AppendLog is a variable-length append-only log backed by a single
// growing Region (§4.2's backing store for ChangeStore). It never moves previously-returned
// offsets: growth always extends the same underlying region.
type AppendLog struct {
	alloc  *Allocator
	region *Region
	len    int
}

// NewAppendLog creates an AppendLog drawing its storage from alloc. A nil
// alloc uses the process-scoped Default allocator.
func NewAppendLog(alloc *Allocator) (*AppendLog, error) {
	if alloc == nil {
		alloc = Default()
	}

	region, err := alloc.Alloc(initialAppendLogCap)
	if err != nil {
		return nil, err
	}

	return &AppendLog{alloc: alloc, region: region}, nil
}

// Len returns the number of bytes written so far.
func (l *AppendLog) Len() int { return l.len }

func growCap(cur, needed int) int {
	if cur == 0 {
		cur = initialAppendLogCap
	}

	for cur < needed {
		cur *= 2
	}

	return cur
}

func (l *AppendLog) ensure(needed int) error {
	if needed <= len(l.region.Bytes()) {
		return nil
	}

	return l.alloc.Grow(l.region, growCap(len(l.region.Bytes()), needed))
}

// Reserve reserves n bytes at the current end of the log without writing
// to them, returning the offset of the reservation and a slice directly
// into the backing storage for the caller to fill. The returned slice is
// invalidated by any later Append/Reserve call that triggers growth.
func (l *AppendLog) Reserve(n int) (offset int, slice []byte, err error) {
	if err := l.ensure(l.len + n); err != nil {
		return 0, nil, err
	}

	offset = l.len
	slice = l.region.Bytes()[offset : offset+n]
	l.len += n

	return offset, slice, nil
}

// Append writes data at the current end of the log and returns its
// offset.
func (l *AppendLog) Append(data []byte) (offset int, err error) {
	offset, slice, err := l.Reserve(len(data))
	if err != nil {
		return 0, err
	}

	copy(slice, data)

	return offset, nil
}

// At returns a slice directly into the backing storage covering
// [offset, offset+n). The caller is trusted to supply a valid, previously
// reserved range; an invalid range yields garbage or panics, matching
// ChangeStore.fetch's documented "trusting" precondition (§4.2).
func (l *AppendLog) At(offset, n int) []byte {
	return l.region.Bytes()[offset : offset+n]
}

// Bytes returns the full written portion of the log.
func (l *AppendLog) Bytes() []byte {
	return l.region.Bytes()[:l.len]
}

// Close releases the log's backing region.
func (l *AppendLog) Close() {
	l.alloc.Free(l.region)
}
