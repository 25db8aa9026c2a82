package types

// FilesRequest contains parameters for a file finder search.
type FilesRequest struct {
	Pattern       string    // Regex on file names, empty matches everything
	Root          string    // Directory to search, default: workspace root
	EntryType     EntryType // Optional kind filter
	Extension     string    // Optional extension filter, with or without dot
	Hidden        bool      // Include hidden entries
	NoIgnore      bool      // Do not honor .gitignore and friends
	MaxDepth      int       // 0 means unlimited
	Exclude       string    // Glob of entries to exclude
	CaseSensitive bool      // Off means smart case
	AbsolutePaths bool      // Report absolute paths
	MaxResults    int       // 0 means the configured default
}

// ContentRequest contains parameters for a content search.
type ContentRequest struct {
	SearchPattern string // Required regex
	FileGlob      string // Optional glob restricting searched files
	Root          string
	Extension     string
	FileType      string // ripgrep type name, e.g. "go" or "py"
	Hidden        bool
	NoIgnore      bool
	CaseSensitive bool
	ContextLines  int
	MaxResults    int
}

// ExecRequest runs a command template against every matched file.
type ExecRequest struct {
	Command   string // Shell template containing the {} placeholder
	Pattern   string
	Root      string
	EntryType EntryType
	Extension string
	Hidden    bool
	NoIgnore  bool
	MaxFiles  int
}

// RecentRequest lists entries modified within a time window.
type RecentRequest struct {
	Root       string
	Hours      *float64 // nil means the configured default (24)
	EntryType  EntryType
	Extension  string
	MaxResults int
}

// CountRequest counts entries matching a file finder search.
type CountRequest struct {
	Pattern       string
	Root          string
	EntryType     EntryType
	Extension     string
	Hidden        bool
	NoIgnore      bool
	MaxDepth      int
	Exclude       string
	CaseSensitive bool
}

// FilesResult is the response for file searches.
type FilesResult struct {
	Results       []MatchRecord `json:"results"`
	Truncated     bool          `json:"truncated"`
	ParseWarnings int           `json:"parse_warnings,omitempty"`
	Warnings      []string      `json:"warnings,omitempty"`
}

// ContentResult is the response for content searches.
type ContentResult struct {
	Matches       []ContentMatch `json:"matches"`
	Truncated     bool           `json:"truncated"`
	ParseWarnings int            `json:"parse_warnings,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// ExecResult is the response for exec.
type ExecResult struct {
	Results       []ExecutionResult `json:"results"`
	Truncated     bool              `json:"truncated"`
	Failures      int               `json:"failures"`
	ParseWarnings int               `json:"parse_warnings,omitempty"`
}

// CountResult is the response for count.
type CountResult struct {
	Count         int  `json:"count"`
	Truncated     bool `json:"truncated"`
	ParseWarnings int  `json:"parse_warnings,omitempty"`
}

// RecentResult is the response for recent_files.
type RecentResult struct {
	Results       []MatchRecord `json:"results"`
	Truncated     bool          `json:"truncated"`
	Hours         float64       `json:"hours"`
	ParseWarnings int           `json:"parse_warnings,omitempty"`
	Warnings      []string      `json:"warnings,omitempty"`
}
