// internal/search/fuzzy_test.go
package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Normalization Tests
// ==========================

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and trims", "  Toyota  ", "toyota"},
		{"strips accents", "Citroën Méxicó", "citroen mexico"},
		{"removes punctuation", "kia-rio!", "kiario"},
		{"collapses whitespace", "nissan   versa", "nissan versa"},
		{"keeps digits", "Mazda 3", "mazda 3"},
		{"empty input", "", ""},
		{"only punctuation", "?!.,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

// ==========================
// Typo Correction Tests
// ==========================

func TestCorrectTypos(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"brand typo nisan", "nisan", "nissan"},
		{"brand typo toyoya", "toyoya", "toyota"},
		{"brand abbreviation vw", "vw", "volkswagen"},
		{"brand typo chevy", "chevy", "chevrolet"},
		{"brand typo mazada", "mazada", "mazda"},
		{"model with trailing noise", "civic 2020 turbo", "civic"},
		{"model prefix rule", "corolla le", "corolla"},
		{"model prefix sentra", "sentra exclusive", "sentra"},
		{"unknown token passes through", "ferrari", "ferrari"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CorrectTypos(tt.input))
		})
	}
}

// ==========================
// Fuzzy Matching Tests
// ==========================

func TestBestMatch(t *testing.T) {
	brands := []string{"Toyota", "Nissan", "Volkswagen", "Chevrolet", "Honda"}

	tests := []struct {
		name          string
		query         string
		candidates    []string
		expectedMatch string
		expectedScore int
		expectOK      bool
	}{
		{
			name:          "exact match scores 100",
			query:         "toyota",
			candidates:    brands,
			expectedMatch: "Toyota",
			expectedScore: 100,
			expectOK:      true,
		},
		{
			name:          "exact match ignores case and accents",
			query:         "TOYÓTA",
			candidates:    brands,
			expectedMatch: "Toyota",
			expectedScore: 100,
			expectOK:      true,
		},
		{
			name:          "close misspelling matches",
			query:         "toyot",
			candidates:    brands,
			expectedMatch: "Toyota",
			expectOK:      true,
		},
		{
			name:          "token order does not matter",
			query:         "corolla toyota",
			candidates:    []string{"Toyota Corolla", "Nissan Versa"},
			expectedMatch: "Toyota Corolla",
			expectedScore: 100,
			expectOK:      true,
		},
		{
			name:       "unrelated query stays below threshold",
			query:      "ferrari",
			candidates: brands,
			expectOK:   false,
		},
		{
			name:       "empty query",
			query:      "",
			candidates: brands,
			expectOK:   false,
		},
		{
			name:       "empty candidate set",
			query:      "toyota",
			candidates: nil,
			expectOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, score, ok := BestMatch(tt.query, tt.candidates, DefaultThreshold)

			assert.Equal(t, tt.expectOK, ok)
			if !tt.expectOK {
				assert.Empty(t, match)
				assert.Zero(t, score)
				return
			}

			assert.Equal(t, tt.expectedMatch, match)
			assert.GreaterOrEqual(t, score, DefaultThreshold)
			if tt.expectedScore != 0 {
				assert.Equal(t, tt.expectedScore, score)
			}
		})
	}
}

func TestBestMatch_Deterministic(t *testing.T) {
	candidates := []string{"Kia", "Mia"}

	// Both candidates score identically against the query; the first by
	// iteration order must win, every time.
	for i := 0; i < 20; i++ {
		match, _, ok := BestMatch("ia", candidates, 50)
		assert.True(t, ok)
		assert.Equal(t, "Kia", match)
	}
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100, tokenSortRatio("toyota corolla", "corolla toyota"))
	assert.Equal(t, 100, tokenSortRatio("", ""))
	assert.Greater(t, tokenSortRatio("toyota", "toyot"), 85)
	assert.Less(t, tokenSortRatio("ferrari", "toyota"), DefaultThreshold)
}
