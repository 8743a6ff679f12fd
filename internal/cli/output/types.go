package output

// StepOutput is the JSON output of the step command.
type StepOutput struct {
	Generation    int        `json:"generation"`
	Population    int        `json:"population"`
	Born          int        `json:"born"`
	Died          int        `json:"died"`
	Summary       string     `json:"summary"`
	Snapshot      []string   `json:"snapshot"`
	ReadmeUpdated bool       `json:"readme_updated"`
	DryRun        bool       `json:"dry_run"`
	Cells         [][2]int   `json:"cells"`
	BornCells     [][2]int   `json:"born_cells,omitempty"`
	DiedCells     [][2]int   `json:"died_cells,omitempty"`
	Bounds        *BoundsOut `json:"bounds,omitempty"`
}

// BoundsOut is a bounding box in JSON output.
type BoundsOut struct {
	MinX int `json:"min_x"`
	MaxX int `json:"max_x"`
	MinY int `json:"min_y"`
	MaxY int `json:"max_y"`
}

// ShowOutput is the JSON output of the show command.
type ShowOutput struct {
	GridDir    string     `json:"grid_dir"`
	Population int        `json:"population"`
	Cells      [][2]int   `json:"cells"`
	Bounds     *BoundsOut `json:"bounds,omitempty"`
	Rows       []string   `json:"rows"`
}

// HistoryEntry is one recorded generation.
type HistoryEntry struct {
	Generation int    `json:"generation"`
	RecordedAt string `json:"recorded_at"`
	Population int    `json:"population"`
	Born       int    `json:"born"`
	Died       int    `json:"died"`
}

// HistoryOutput is the JSON output of the history command.
type HistoryOutput struct {
	Generations []HistoryEntry `json:"generations"`
	Total       int            `json:"total"`
}

// PatternInfo describes a seed pattern.
type PatternInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Cells       int    `json:"cells"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// PatternsOutput is the JSON output of the patterns command.
type PatternsOutput struct {
	Patterns []PatternInfo `json:"patterns"`
}

// Check is one doctor check.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "pass", "warn", "error"
	Message string `json:"message"`
}

// DoctorOutput is the JSON output of the doctor command.
type DoctorOutput struct {
	Checks   []Check `json:"checks"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`
}
