package task

import "football/pipeline/internal/domain"

type ScrapeTeamTask struct {
	Source   domain.Source `json:"source"`    // fbref or understat
	TeamName string        `json:"team_name"` // Display name, resolved via domain.FindTeam
	Season   domain.Season `json:"season"`    // Starting year of the campaign
}

func (t *ScrapeTeamTask) TaskType() string {
	return "ScrapeTeamTask"
}

func (t *ScrapeTeamTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
