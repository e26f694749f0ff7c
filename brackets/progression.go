package brackets

// Slot names one of a match's two team positions.
type Slot int

const (
	SlotTeam1 Slot = iota + 1
	SlotTeam2
)

func (s Slot) String() string {
	if s == SlotTeam1 {
		return "team1"
	}
	return "team2"
}

// NumRounds returns the total number of rounds for a bracket whose first
// round holds n matches: ceil(log2(n)) + 1. Zero for an empty first round.
func NumRounds(firstRoundMatches int) int {
	if firstRoundMatches < 1 {
		return 0
	}
	rounds := 1
	for n := firstRoundMatches; n > 1; n = (n + 1) / 2 {
		rounds++
	}
	return rounds
}

// FeedsInto returns the next-round position a match's victor advances to.
// Odd match numbers land in the team1 slot, even ones in team2.
func FeedsInto(matchNumber int) (childNumber int, slot Slot) {
	half := matchNumber / 2
	if matchNumber%2 != 0 {
		return half + 1, SlotTeam1
	}
	return half, SlotTeam2
}

// ParentNumbers returns the two prior-round match numbers feeding position m:
// 2m-1 for the team1 side, 2m for the team2 side.
func ParentNumbers(matchNumber int) (team1Side, team2Side int) {
	return 2*matchNumber - 1, 2 * matchNumber
}
