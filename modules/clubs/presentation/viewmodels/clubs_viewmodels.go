package viewmodels

type ImportEntry struct {
	StudentID     string `json:"studentId"`
	Name          string `json:"name"`
	ExtractedName string `json:"extractedName"`
	MatchScore    int    `json:"matchScore"`
}

type ImportSummary struct {
	TotalExtracted    int `json:"totalExtracted"`
	TotalMatched      int `json:"totalMatched"`
	AvailableToAdd    int `json:"availableToAdd"`
	SuccessfullyAdded int `json:"successfullyAdded"`
	AlreadyMembers    int `json:"alreadyMembers"`
	CategoryConflicts int `json:"categoryConflicts"`
	Unmatched         int `json:"unmatched"`
	Duplicates        int `json:"duplicates"`
}

type ImportResults struct {
	Added             []ImportEntry `json:"added"`
	Conflicts         []ImportEntry `json:"conflicts"`
	CategoryConflicts []ImportEntry `json:"categoryConflicts"`
	Unmatched         []string      `json:"unmatched"`
	Duplicates        []ImportEntry `json:"duplicates"`
}

type ImportResult struct {
	ClubID  string        `json:"clubId"`
	DryRun  bool          `json:"dryRun"`
	Summary ImportSummary `json:"summary"`
	Results ImportResults `json:"results"`
}

type Member struct {
	ID        string  `json:"id"`
	StudentID string  `json:"studentId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	FullName  string  `json:"fullName"`
	Grade     string  `json:"grade"`
	Status    string  `json:"status"`
	JoinedAt  string  `json:"joinedAt"`
	LeftAt    *string `json:"leftAt,omitempty"`
}

type MemberList struct {
	Members []Member `json:"members"`
	Total   int64    `json:"total"`
}

type Membership struct {
	ID        string  `json:"id"`
	ClubID    string  `json:"clubId"`
	StudentID string  `json:"studentId"`
	Status    string  `json:"status"`
	JoinedAt  string  `json:"joinedAt"`
	LeftAt    *string `json:"leftAt,omitempty"`
}

type Student struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	FullName    string `json:"fullName"`
	Grade       string `json:"grade"`
	Combination string `json:"combination,omitempty"`
}
