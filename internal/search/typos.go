// internal/search/typos.go
package search

import "regexp"

// typoRule rewrites a known misspelling to its catalog canonical form.
// Rules live in slices, not maps: they are tried in order and the first
// match wins, which keeps correction deterministic.
type typoRule struct {
	pattern   *regexp.Regexp
	canonical string
}

// brandTypos are whole-token rewrites for the highest-frequency real-world
// brand misspellings. Catching these before fuzzy scoring reduces false
// fuzzy matches.
var brandTypos = []typoRule{
	{regexp.MustCompile(`^nisan$`), "nissan"},
	{regexp.MustCompile(`^toyoya$`), "toyota"},
	{regexp.MustCompile(`^vw$`), "volkswagen"},
	{regexp.MustCompile(`^vwv$`), "volkswagen"},
	{regexp.MustCompile(`^volks$`), "volkswagen"},
	{regexp.MustCompile(`^chevy$`), "chevrolet"},
	{regexp.MustCompile(`^cheverolet$`), "chevrolet"},
	{regexp.MustCompile(`^mazada$`), "mazda"},
	{regexp.MustCompile(`^mitsubitshi$`), "mitsubishi"},
	{regexp.MustCompile(`^mercedez$`), "mercedes"},
}

// modelTypos strip trailing trim/year noise from known model names
// ("civic 2020 turbo" becomes "civic").
var modelTypos = []typoRule{
	{regexp.MustCompile(`^civic.*`), "civic"},
	{regexp.MustCompile(`^sentra.*`), "sentra"},
	{regexp.MustCompile(`^corolla.*`), "corolla"},
	{regexp.MustCompile(`^jetta.*`), "jetta"},
	{regexp.MustCompile(`^golf.*`), "golf"},
	{regexp.MustCompile(`^versa.*`), "versa"},
	{regexp.MustCompile(`^march.*`), "march"},
	{regexp.MustCompile(`^tsuru.*`), "tsuru"},
	{regexp.MustCompile(`^aveo.*`), "aveo"},
	{regexp.MustCompile(`^spark.*`), "spark"},
}

// CorrectTypos rewrites a normalized brand or model token using the ordered
// rule tables: brand rules first (first match wins, stop), then model rules.
// Unmatched tokens pass through unchanged.
func CorrectTypos(token string) string {
	if token == "" {
		return ""
	}

	for _, rule := range brandTypos {
		if rule.pattern.MatchString(token) {
			token = rule.canonical
			break
		}
	}

	for _, rule := range modelTypos {
		if rule.pattern.MatchString(token) {
			return rule.canonical
		}
	}

	return token
}
