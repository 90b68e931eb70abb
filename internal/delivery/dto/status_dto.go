package dto

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Engine   string `json:"engine"`
	Error    string `json:"error,omitempty"`
	Instance string `json:"instance,omitempty"`
}
