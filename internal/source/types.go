package source

// RawRecord represents a single line in a health-export JSONL file.
type RawRecord struct {
	Type     string  `json:"type"`
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit,omitempty"`
	LoggedAt string  `json:"logged_at,omitempty"`
}

// DiscoveredFile represents a JSONL export file found during scanning.
type DiscoveredFile struct {
	Path      string
	Name      string
	MtimeNs   int64
	SizeBytes int64
}
