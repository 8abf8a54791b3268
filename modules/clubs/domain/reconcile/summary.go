package reconcile

// Summary holds the literal counts of one import run.
type Summary struct {
	TotalExtracted    int
	TotalMatched      int
	AvailableToAdd    int
	SuccessfullyAdded int
	AlreadyMembers    int
	CategoryConflicts int
	Unmatched         int
	// Duplicates counts matched names that resolved to a student another name already claimed.
	Duplicates int
}
