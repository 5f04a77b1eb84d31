package usecase

// ScoreInput holds the counts the authenticity score is computed from.
type ScoreInput struct {
	Stars        int
	Forks        int
	OpenIssues   int
	ClosedIssues int
	OpenPRs      int
	ClosedPRs    int
}

// maxScore is the largest value CalculateScore reports; the formula approaches
// 100 asymptotically but rounding could otherwise reach it.
const maxScore = 99.99

// CalculateScore returns the heuristic authenticity score in [0, 100), rounded
// to two decimals. It is a popularity and activity proxy, not a validated measure.
// A repository with no signal at all scores 0.
func CalculateScore(in ScoreInput) float64 {
	if in == (ScoreInput{}) {
		return 0
	}
	score := round2(rawScore(in))
	if score > maxScore {
		return maxScore
	}
	return score
}

func rawScore(in ScoreInput) float64 {
	stars := float64(in.Stars)
	forks := float64(in.Forks)
	openIssues := float64(in.OpenIssues)
	closedIssues := float64(in.ClosedIssues)
	prs := float64(in.OpenPRs + in.ClosedPRs)

	return (0.3*(stars/(stars+1)) +
		0.3*(forks/(forks+1)) +
		0.2*(1-openIssues/(openIssues+closedIssues+1)) +
		0.2*(prs/(prs+1))) * 100
}
