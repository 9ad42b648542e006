package models

// FlagMap is the parsed key/value result of one scan invocation. Keys keep
// their original casing; denylist matching lowercases them separately.
type FlagMap map[string]string

// ScanResult is the three-way partition produced by classification.
type ScanResult struct {
	Kept           FlagMap
	RemovedPrimary FlagMap
	RemovedStrict  FlagMap
}

// HasRemovals reports whether either pass removed anything.
func (r ScanResult) HasRemovals() bool {
	return len(r.RemovedPrimary) > 0 || len(r.RemovedStrict) > 0
}
