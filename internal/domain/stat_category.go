package domain

type StatCategory string

func (c StatCategory) String() string {
	return string(c)
}

const (
	CategoryScoresFixtures   StatCategory = "scores_fixtures"
	CategoryShooting         StatCategory = "shooting"
	CategoryGoalkeeping      StatCategory = "goalkeeping"
	CategoryPassing          StatCategory = "passing"
	CategoryPassTypes        StatCategory = "pass_types"
	CategoryGoalShotCreation StatCategory = "goal_shot_creation"
	CategoryDefensiveActions StatCategory = "defensive_actions"
	CategoryPossession       StatCategory = "possession"
	CategoryMiscellaneous    StatCategory = "miscellaneous"
)

var StatCategories = []StatCategory{
	CategoryScoresFixtures,
	CategoryShooting,
	CategoryGoalkeeping,
	CategoryPassing,
	CategoryPassTypes,
	CategoryGoalShotCreation,
	CategoryDefensiveActions,
	CategoryPossession,
	CategoryMiscellaneous,
}

// URLFragment returns the path fragment FBRef uses for the category's
// match-log pages.
func (c StatCategory) URLFragment() string {
	switch c {
	case CategoryScoresFixtures:
		return "schedule"
	case CategoryShooting:
		return "shooting"
	case CategoryGoalkeeping:
		return "keeper"
	case CategoryPassing:
		return "passing"
	case CategoryPassTypes:
		return "passing_types"
	case CategoryGoalShotCreation:
		return "gca"
	case CategoryDefensiveActions:
		return "defense"
	case CategoryPossession:
		return "possession"
	case CategoryMiscellaneous:
		return "misc"
	default:
		return ""
	}
}
