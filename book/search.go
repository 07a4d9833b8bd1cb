package book

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a search term into a LIKE pattern matching it as a
// literal substring. Backslash is the escape character.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Matches reports whether term is a case-insensitive substring of any
// searchable field
func (b Book) Matches(term string) bool {
	t := strings.ToLower(term)
	for _, v := range []string{b.Title, b.Author, b.Genre, b.Year} {
		if strings.Contains(strings.ToLower(v), t) {
			return true
		}
	}
	return false
}
