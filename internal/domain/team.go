package domain

import "strings"

// Team identifies a club on both sources. FBRefID is the hex squad id in
// FBRef URLs, FBRefName the dash-separated URL form, UnderstatName the
// underscore-separated form Understat uses in team page URLs.
type Team struct {
	Name          string `json:"name"`
	FBRefID       string `json:"fbref_id"`
	FBRefName     string `json:"fbref_name"`
	UnderstatName string `json:"understat_name"`
}

// PremierLeagueTeams is the 2025-26 season squad list.
var PremierLeagueTeams = []Team{
	{Name: "Arsenal", FBRefID: "18bb7c10", FBRefName: "Arsenal", UnderstatName: "Arsenal"},
	{Name: "Aston Villa", FBRefID: "8602292d", FBRefName: "Aston-Villa", UnderstatName: "Aston_Villa"},
	{Name: "Bournemouth", FBRefID: "4ba7cbea", FBRefName: "Bournemouth", UnderstatName: "Bournemouth"},
	{Name: "Brentford", FBRefID: "cd051869", FBRefName: "Brentford", UnderstatName: "Brentford"},
	{Name: "Brighton and Hove Albion", FBRefID: "d07537b9", FBRefName: "Brighton-and-Hove-Albion", UnderstatName: "Brighton"},
	{Name: "Chelsea", FBRefID: "cff3d9bb", FBRefName: "Chelsea", UnderstatName: "Chelsea"},
	{Name: "Crystal Palace", FBRefID: "47c64c55", FBRefName: "Crystal-Palace", UnderstatName: "Crystal_Palace"},
	{Name: "Everton", FBRefID: "d3fd31cc", FBRefName: "Everton", UnderstatName: "Everton"},
	{Name: "Fulham", FBRefID: "fd962109", FBRefName: "Fulham", UnderstatName: "Fulham"},
	{Name: "Ipswich Town", FBRefID: "b74092de", FBRefName: "Ipswich-Town", UnderstatName: "Ipswich"},
	{Name: "Leicester City", FBRefID: "a2d435b3", FBRefName: "Leicester-City", UnderstatName: "Leicester"},
	{Name: "Liverpool", FBRefID: "822bd0ba", FBRefName: "Liverpool", UnderstatName: "Liverpool"},
	{Name: "Manchester City", FBRefID: "b8fd03ef", FBRefName: "Manchester-City", UnderstatName: "Manchester_City"},
	{Name: "Manchester United", FBRefID: "19538871", FBRefName: "Manchester-United", UnderstatName: "Manchester_United"},
	{Name: "Newcastle United", FBRefID: "b2b47a98", FBRefName: "Newcastle-United", UnderstatName: "Newcastle_United"},
	{Name: "Nottingham Forest", FBRefID: "e4a775cb", FBRefName: "Nottingham-Forest", UnderstatName: "Nottingham_Forest"},
	{Name: "Southampton", FBRefID: "33c895d4", FBRefName: "Southampton", UnderstatName: "Southampton"},
	{Name: "Tottenham Hotspur", FBRefID: "361ca564", FBRefName: "Tottenham-Hotspur", UnderstatName: "Tottenham"},
	{Name: "West Ham United", FBRefID: "7c21e445", FBRefName: "West-Ham-United", UnderstatName: "West_Ham"},
	{Name: "Wolverhampton Wanderers", FBRefID: "8cec06e1", FBRefName: "Wolverhampton-Wanderers", UnderstatName: "Wolverhampton_Wanderers"},
}

// UnderstatTitle is the display title Understat embeds in page payloads,
// which is shorter than the canonical name for several clubs ("Brighton",
// "Tottenham", "West Ham").
func (t Team) UnderstatTitle() string {
	return strings.ReplaceAll(t.UnderstatName, "_", " ")
}

// FindTeam looks a team up by display name.
func FindTeam(name string) (Team, bool) {
	for _, t := range PremierLeagueTeams {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Team{}, false
}

// FindTeamByUnderstatTitle resolves an Understat display title to a club,
// accepting the canonical name as well.
func FindTeamByUnderstatTitle(title string) (Team, bool) {
	for _, t := range PremierLeagueTeams {
		if strings.EqualFold(t.UnderstatTitle(), title) || strings.EqualFold(t.Name, title) {
			return t, true
		}
	}
	return Team{}, false
}
