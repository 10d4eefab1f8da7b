// Package fault provides the domain model for in-flight package function
// calls used to attribute a worker crash to a specific package.
package fault

import "time"

// Call records a single outstanding call into a package hosted by a slave.
// It is created by FuncCall and consumed by either a matching FuncRet or by
// Check at worker death.
type Call struct {
	// SlaveName is the stable name of the slave the call was made on. A
	// name is used rather than a pointer since the slave record may be
	// destroyed before this entry is drained.
	SlaveName string
	// Package is the package the call was made into.
	Package string
	// Filename is the source file the call originated from.
	Filename string
	// Funcname is the function invoked.
	Funcname string
	// Timestamp is when the call was recorded.
	Timestamp time.Time
}
