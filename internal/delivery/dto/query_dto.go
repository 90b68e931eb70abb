package dto

type RawQueryRequest struct {
	SQL string `json:"sql" validate:"required"`
}

// RawQueryResponse carries the engine's result shape plus Output, the
// console text shown under the raw SQL box.
type RawQueryResponse struct {
	Rows        []map[string]interface{} `json:"rows"`
	Command     string                   `json:"command"`
	RowCount    int64                    `json:"rowCount"`
	Output      string                   `json:"output"`
	DataChanged bool                     `json:"dataChanged"`
}
