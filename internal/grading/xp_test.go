package grading

import "testing"

func TestAwardXP(t *testing.T) {
	testCases := []struct {
		name          string
		questionCount int
		difficulty    string
		passed        bool
		percentage    float64
		firstAttempt  bool
		expected      int
	}{
		// 100 * 1.5 * 1.5 * 1.25 * 1.1 = 309.375
		{"medium perfect first pass", 10, "medium", true, 100, true, 309},
		// 100 * 1.0 * 1.5 * 1.0 * 1.1 = 165
		{"easy pass first attempt", 10, "easy", true, 80, true, 165},
		// 100 * 1.0 * 1.5 * 1.0 * 1.0 = 150
		{"easy pass on retry", 10, "easy", true, 80, false, 150},
		// 100 * 2.0 * 1.0 * 1.0 * 1.0 = 200
		{"hard fail", 10, "hard", false, 40, false, 200},
		// 50 * 2.0 * 1.5 * 1.25 * 1.1 = 206.25
		{"hard perfect first pass", 5, "hard", true, 100, true, 206},
		{"zero questions", 0, "easy", true, 100, true, 0},
		// Unknown tiers fall back to the base multiplier.
		{"unknown difficulty", 10, "expert", true, 80, false, 150},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := AwardXP(tc.questionCount, tc.difficulty, tc.passed, tc.percentage, tc.firstAttempt)
			if got != tc.expected {
				t.Errorf("AwardXP = %d, expected %d", got, tc.expected)
			}
		})
	}
}

func TestAwardXPIsDeterministic(t *testing.T) {
	first := AwardXP(10, "medium", true, 100, true)
	for i := 0; i < 100; i++ {
		if got := AwardXP(10, "medium", true, 100, true); got != first {
			t.Fatalf("AwardXP varied between calls: %d vs %d", got, first)
		}
	}
}
