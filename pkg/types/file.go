package types

// CollectedFile is a file discovered by the collector with its content and
// sizing metadata already resolved.
type CollectedFile struct {
	Path         string // absolute path
	RelativePath string // relative to the collection root
	Content      string
	Size         int64 // bytes
	TokenCount   int
	Language     string // detected from extension, "text" when unknown

	// RelevanceScore is set by keyword scoring against a query; zero until scored
	RelevanceScore float64
}

// FilePattern describes which files a collection should include
type FilePattern struct {
	Include          []string // doublestar globs; empty means all supported extensions
	Exclude          []string // doublestar globs applied on top of the built-in ignore set
	RespectGitignore bool
}
