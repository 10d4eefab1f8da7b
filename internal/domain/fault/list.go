package fault

// List is an ordered, insertion-order collection of outstanding Call
// records shared across all slaves. Entries are appended at the tail;
// reverse iteration yields the most recently recorded call first (LIFO),
// which is how a worker death attributes blame to the call that was
// executing when it crashed.
type List struct {
	entries []Call
}

// NewList constructs an empty call list.
//
// Returns:
//   - *List: an empty list
func NewList() *List {
	// Nothing outstanding at construction time.
	return &List{}
}

// Len returns the number of outstanding calls across all slaves.
//
// Returns:
//   - int: the number of entries currently tracked
func (l *List) Len() int {
	// Report the raw slice length.
	return len(l.entries)
}

// Append records a new outstanding call at the tail of the list.
//
// Params:
//   - c: the call to record
func (l *List) Append(c Call) {
	// Most recent call always goes at the tail.
	l.entries = append(l.entries, c)
}

// RemoveOldestMatch removes the earliest-recorded entry exactly matching
// the given slave and call-site, as used when a reply arrives for a call
// that was previously recorded with FuncCall.
//
// Params:
//   - slaveName: the slave the call was made on
//   - pkg: the package the call was made into
//   - file: the source file of the call site
//   - fn: the function invoked
//
// Returns:
//   - bool: true if a matching entry was found and removed
func (l *List) RemoveOldestMatch(slaveName, pkg, file, fn string) bool {
	// Scan forward so the oldest match is removed first.
	for i, e := range l.entries {
		if e.SlaveName == slaveName && e.Package == pkg && e.Filename == file && e.Funcname == fn {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// DrainSlave removes every entry recorded against slaveName and returns
// them ordered most-recent-first (LIFO). All other entries are left
// untouched and keep their relative order.
//
// Params:
//   - slaveName: the slave whose entries should be drained
//
// Returns:
//   - []Call: the drained entries, most recent first
func (l *List) DrainSlave(slaveName string) []Call {
	// Partition entries into matches (drained) and the rest (kept).
	drained := make([]Call, 0)
	kept := make([]Call, 0, len(l.entries))
	for _, e := range l.entries {
		if e.SlaveName == slaveName {
			drained = append(drained, e)
		} else {
			kept = append(kept, e)
		}
	}
	l.entries = kept

	// Reverse in place so the most recently appended entry comes first.
	for i, j := 0, len(drained)-1; i < j; i, j = i+1, j-1 {
		drained[i], drained[j] = drained[j], drained[i]
	}
	return drained
}
