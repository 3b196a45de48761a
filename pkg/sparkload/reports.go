package sparkload

import "time"

// FileSet is the result of discovering one dataset root.
type FileSet struct {
	Root  string
	Files []string // absolute paths (or s3:// URLs) in discovery order
}

// Len returns the number of discovered files.
func (s FileSet) Len() int {
	return len(s.Files)
}

// FileFailure records one file whose transaction was rolled back.
type FileFailure struct {
	Path string
	Err  error
}

// DatasetReport summarizes one pass of the batch driver.
type DatasetReport struct {
	Dataset   Dataset
	Found     int
	Processed int
	Failed    int
	Skipped   int
	Rows      map[Table]int64
	Failures  []FileFailure
	Duration  time.Duration
}

// AddRows accumulates row counts from one file.
func (r *DatasetReport) AddRows(rows map[Table]int64) {
	if r.Rows == nil {
		r.Rows = make(map[Table]int64)
	}
	for t, n := range rows {
		r.Rows[t] += n
	}
}

// RunReport summarizes a full load.
type RunReport struct {
	Datasets []DatasetReport
	Duration time.Duration
}

// TotalRows sums rows loaded into a table across datasets.
func (r RunReport) TotalRows(t Table) int64 {
	var n int64
	for _, d := range r.Datasets {
		n += d.Rows[t]
	}
	return n
}
