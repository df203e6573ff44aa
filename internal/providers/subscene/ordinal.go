package subscene

import "strconv"

var seasonWords = []string{
	"", "First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh",
	"Eighth", "Ninth", "Tenth", "Eleventh", "Twelfth", "Thirteenth",
	"Fourteenth", "Fifteenth", "Sixteenth", "Seventeenth", "Eighteenth",
	"Nineteenth", "Twentieth", "Twenty-First", "Twenty-Second",
	"Twenty-Third", "Twenty-Fourth", "Twenty-Fifth",
}

// seasonWord spells a season number the way title pages list it
// ("Show - Third Season").
func seasonWord(season int) string {
	if season > 0 && season < len(seasonWords) {
		return seasonWords[season]
	}
	return strconv.Itoa(season) + "th"
}
