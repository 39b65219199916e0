package utils

var (
	achievementRanks  = []string{"Unranked", "Bronze", "Silver", "Gold", "Platinum", "Diamond"}
	achievementColors = []string{"#242132", "brown", "grey", "#f6ca15", "lightblue", "#e5b9f4"}
)

// AchievementRank maps a 0..5 tier to its display rank and colour.
func AchievementRank(tier int) (rank string, color string) {
	if tier < 0 || tier >= len(achievementRanks) {
		tier = 0
	}
	return achievementRanks[tier], achievementColors[tier]
}
