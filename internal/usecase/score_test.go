package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateScore(t *testing.T) {
	testCases := []struct {
		name     string
		input    ScoreInput
		expected float64
	}{
		{
			name:     "no signal at all",
			input:    ScoreInput{},
			expected: 0,
		},
		{
			name:     "single star",
			input:    ScoreInput{Stars: 1},
			expected: 35,
		},
		{
			name:     "sample repository",
			input:    ScoreInput{Stars: 10, Forks: 2, OpenIssues: 1, ClosedIssues: 2, OpenPRs: 1, ClosedPRs: 2},
			expected: 77.27,
		},
		{
			name:     "only open issues",
			input:    ScoreInput{OpenIssues: 3},
			expected: 5,
		},
		{
			name:     "huge counts stay below 100",
			input:    ScoreInput{Stars: 1 << 30, Forks: 1 << 30, ClosedIssues: 1 << 30, OpenPRs: 1 << 30},
			expected: 99.99,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CalculateScore(tc.input))
		})
	}
}

func TestCalculateScore_Bounds(t *testing.T) {
	for stars := 0; stars <= 2000; stars += 7 {
		for _, forks := range []int{0, 1, 50, 100000} {
			in := ScoreInput{Stars: stars, Forks: forks, OpenIssues: 5, ClosedIssues: 20, OpenPRs: 3, ClosedPRs: 9}
			score := CalculateScore(in)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.Less(t, score, 100.0)
		}
	}
}

func TestRawScore_Monotonic(t *testing.T) {
	base := ScoreInput{OpenIssues: 2, ClosedIssues: 10, OpenPRs: 1, ClosedPRs: 4}

	for n := 0; n < 1000; n++ {
		withStars, moreStars := base, base
		withStars.Stars, moreStars.Stars = n, n+1
		assert.Greater(t, rawScore(moreStars), rawScore(withStars), "stars %d", n)

		withForks, moreForks := base, base
		withForks.Forks, moreForks.Forks = n, n+1
		assert.Greater(t, rawScore(moreForks), rawScore(withForks), "forks %d", n)
	}
}

func TestCalculateScore_NonDecreasing(t *testing.T) {
	prev := CalculateScore(ScoreInput{Forks: 1})
	for stars := 1; stars < 5000; stars++ {
		score := CalculateScore(ScoreInput{Stars: stars, Forks: 1})
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}
