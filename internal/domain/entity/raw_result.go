package entity

// RawResult is the engine's result shape for a raw statement, returned
// unmodified: Rows for row-producing statements, Command as the leading
// keyword, RowCount as rows returned or rows affected.
type RawResult struct {
	Rows     []map[string]interface{} `json:"rows"`
	Command  string                   `json:"command"`
	RowCount int64                    `json:"rowCount"`

	// Mutated is set when the statement triggered a data_changed event.
	Mutated bool `json:"-"`
}
