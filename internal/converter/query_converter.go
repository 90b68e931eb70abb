package converter

import (
	"encoding/json"
	"fmt"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
)

// RawResultToResponse converts driver byte slices to text so results
// serialize as readable JSON.
func RawResultToResponse(result *entity.RawResult) *dto.RawQueryResponse {
	if result == nil {
		return nil
	}

	rows := make([]map[string]interface{}, len(result.Rows))
	for i, row := range result.Rows {
		converted := make(map[string]interface{}, len(row))
		for column, value := range row {
			if b, ok := value.([]byte); ok {
				converted[column] = string(b)
				continue
			}
			converted[column] = value
		}
		rows[i] = converted
	}

	response := &dto.RawQueryResponse{
		Rows:        rows,
		Command:     result.Command,
		RowCount:    result.RowCount,
		DataChanged: result.Mutated,
	}
	response.Output = formatOutput(response)
	return response
}

func formatOutput(response *dto.RawQueryResponse) string {
	if len(response.Rows) > 0 {
		pretty, err := json.MarshalIndent(response.Rows, "", "  ")
		if err == nil {
			return string(pretty)
		}
	}
	if response.Command != "" {
		return fmt.Sprintf("Command: %s\nRows affected: %d", response.Command, response.RowCount)
	}
	return "Query executed successfully with no specific rows returned."
}
