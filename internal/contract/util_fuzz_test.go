package contract

import (
	"testing"
)

// FuzzParseDateTime fuzzes ParseDateTime with arbitrary date strings.
func FuzzParseDateTime(f *testing.F) {
	seeds := []string{
		"2024-05-01",
		"2024-5-3",
		"2024-05-01 06:30:00",
		"2024-05-01T06:30:00Z",
		"",
		"0-0-0",
		"99999-12-31",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, _ = ParseDateTime(input)
	})
}

// FuzzParseScenario fuzzes the scenario decoder; malformed documents must fail cleanly.
func FuzzParseScenario(f *testing.F) {
	f.Add([]byte(savingsScenario))
	f.Add([]byte("items: ["))
	f.Add([]byte("items:\n  - name: a\n    patterns: [{schedule: [1d, 2d]}]\n"))

	f.Fuzz(func(_ *testing.T, data []byte) {
		_, _ = ParseScenario(data)
	})
}
