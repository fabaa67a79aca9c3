package snapshot

import (
	"time"

	"cordex/domain/stats"
	"cordex/domain/table"
)

// Snapshot is the complete, immutable analysis of one version of the source file
type Snapshot struct {
	RunID    string        `json:"run_id"`
	Source   Source        `json:"source"`
	LoadedAt time.Time     `json:"loaded_at"`
	Elapsed  time.Duration `json:"elapsed_ns"`

	Raw     *table.Table `json:"-"`
	Derived *table.Table `json:"-"`

	Missing    stats.MissingnessSummary `json:"missing"`
	Describe   stats.DescriptiveStats   `json:"describe"`
	Years      stats.Aggregate          `json:"years"`
	Journals   stats.Aggregate          `json:"journals"`
	Sources    stats.Aggregate          `json:"sources"`
	Titles     stats.TokenFrequency     `json:"titles"`
	WordCounts stats.Histogram          `json:"abstract_lengths"`
	Bounds     stats.YearBounds         `json:"bounds"`
}

// Source identifies the file version a snapshot was built from
type Source struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Digest  string    `json:"digest"`
}

// Shape is the rows x columns of the raw and the cleaned tables
type Shape struct {
	Rows         int `json:"rows"`
	Columns      int `json:"columns"`
	CleanRows    int `json:"clean_rows"`
	CleanColumns int `json:"clean_columns"`
}

// Shape reports the dimensions of the raw and derived tables
func (s *Snapshot) Shape() Shape {
	var sh Shape
	if s.Raw != nil {
		sh.Rows, sh.Columns = s.Raw.Shape()
	}
	if s.Derived != nil {
		sh.CleanRows, sh.CleanColumns = s.Derived.Shape()
	}
	return sh
}

// Aggregate returns a named aggregate: years, journals or sources
func (s *Snapshot) Aggregate(name string) (stats.Aggregate, bool) {
	switch name {
	case "years":
		return s.Years, true
	case "journals":
		return s.Journals, true
	case "sources":
		return s.Sources, true
	}
	return stats.Aggregate{}, false
}
