package dto

type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type HealthOutput struct {
	Status  string `json:"status"`
	DB      bool   `json:"db"`
	Version string `json:"version"`
}
