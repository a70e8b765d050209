package task

import "football/pipeline/internal/domain"

type TeamRetryTask struct {
	Source     domain.Source `json:"source"`
	TeamName   string        `json:"team_name"`
	Season     domain.Season `json:"season"`
	RetryCount int           `json:"retry_count"` // Number of times this team has been retried
	Error      string        `json:"error"`       // Error message from the original failure
}

func (t *TeamRetryTask) TaskType() string {
	return "TeamRetryTask"
}

func (t *TeamRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
