package dto

import (
	"encoding/json"
	"time"
)

type DeadLetterFilter struct {
	Limit int64 `form:"limit" validate:"omitempty,min=1,max=500"`
}

type DeadLetterResponse struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"jobType"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failedAt"`
}

type DeadLetterListResponse struct {
	Queue string               `json:"queue"`
	Total int64                `json:"total"`
	Items []DeadLetterResponse `json:"items"`
}
