package placement

import "github.com/kodflow/livewidgetd/internal/domain/slave"

// FindAvailable scans candidates in the order given (callers pass them in
// registry insertion order) and returns the first slave eligible to host a
// package with the requested abi/secured/network profile. It returns
// false when no candidate qualifies, signalling the caller should create
// and activate a fresh slave instead.
//
// Params:
//   - candidates: the live slave snapshot, in insertion order
//   - abi: the requested worker ABI
//   - secured: whether the package requires a dedicated slave
//   - network: whether the package requires outbound network access
//   - defaultABI: the ABI considered "default" for load-cap purposes
//   - maxLoad: the maximum number of packages a default-ABI slave may host
//
// Returns:
//   - Candidate: the chosen slave, zero value if none qualify
//   - bool: true if a candidate was chosen
func FindAvailable(candidates []Candidate, abi string, secured, network bool, defaultABI string, maxLoad int) (Candidate, bool) {
	for _, c := range candidates {
		// Reject on secured-flag mismatch.
		if c.Secured != secured {
			continue
		}
		// Reject slaves about to vanish: terminating with nothing left loaded.
		if c.State == slave.StateRequestToTerminate && c.LoadedInstances == 0 {
			continue
		}
		// Reject on ABI mismatch, case-insensitive.
		if !abiEquals(c.ABI, abi) {
			continue
		}

		switch {
		// Secured placements require a completely empty slave.
		case secured:
			if c.LoadedPackages == 0 {
				return c, true
			}
		// Default-ABI placements respect the network flag and the load cap.
		case abiEquals(abi, defaultABI):
			if c.Network == network && c.LoadedPackages < maxLoad {
				return c, true
			}
		// Non-default ABI placements respect only the network flag.
		default:
			if c.Network == network {
				return c, true
			}
		}
	}
	return Candidate{}, false
}
