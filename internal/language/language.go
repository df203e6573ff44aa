package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

type entry struct {
	code2    string   // ISO 639-1 (2-letter)
	code3    string   // ISO 639-2/B (3-letter), as used by opensubtitles.org
	alt3     string   // ISO 639-2/T alternate (e.g. "fra" vs "fre")
	display  string   // Human-readable name, as printed by subtitle sites
	subscene string   // Subscene LanguageFilter id
	words    []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", "13", []string{"english"}},
	{"es", "spa", "", "Spanish", "38", []string{"spanish"}},
	{"fr", "fre", "fra", "French", "18", []string{"french"}},
	{"de", "ger", "deu", "German", "19", []string{"german"}},
	{"it", "ita", "", "Italian", "26", []string{"italian"}},
	{"pt", "por", "", "Portuguese", "32", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", "27", []string{"japanese"}},
	{"ko", "kor", "", "Korean", "28", []string{"korean"}},
	{"zh", "chi", "zho", "Chinese", "41", []string{"chinese"}},
	{"ru", "rus", "", "Russian", "34", []string{"russian"}},
	{"ar", "ara", "", "Arabic", "2", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", "51", []string{"hindi"}},
	{"nl", "dut", "nld", "Dutch", "11", []string{"dutch"}},
	{"pl", "pol", "", "Polish", "31", []string{"polish"}},
	{"sv", "swe", "", "Swedish", "39", []string{"swedish"}},
	{"da", "dan", "", "Danish", "10", []string{"danish"}},
	{"no", "nor", "", "Norwegian", "30", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", "17", []string{"finnish"}},
}

var titleCaser = cases.Title(xlanguage.English)

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	// Config files written by older releases store "English, en".
	if head, _, found := strings.Cut(code, ","); found {
		return lookup(head)
	}
	if base, ok := parseBase(code); ok {
		if e, ok := byCode2[base]; ok {
			return e
		}
	}
	return nil
}

// parseBase resolves BCP 47 tags such as "en-US" or "pt_BR" to their base
// language subtag.
func parseBase(code string) (string, bool) {
	tag, err := xlanguage.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", false
	}
	base, confidence := tag.Base()
	if confidence == xlanguage.No {
		return "", false
	}
	return base.String(), true
}

// ToISO2 converts any recognized language code, tag, or word to ISO 639-1.
// Returns empty string for unrecognized input.
// If the input is already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// ToISO3 converts any recognized language code to the bibliographic ISO 639-2
// code used by opensubtitles.org search URLs ("eng", "fre", "ger").
// Returns "und" for unrecognized input.
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "und"
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if len(code) == 3 {
		return code
	}
	if base, ok := parseBase(code); ok {
		if b, err := xlanguage.ParseBase(base); err == nil {
			return b.ISO3()
		}
	}
	return "und"
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the title-cased input otherwise.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return titleCaser.String(strings.ToLower(strings.TrimSpace(code)))
}

// SubsceneID returns the Subscene LanguageFilter id for a language.
func SubsceneID(code string) (string, bool) {
	if e := lookup(code); e != nil && e.subscene != "" {
		return e.subscene, true
	}
	return "", false
}

// Known reports whether the code resolves to a supported language.
func Known(code string) bool {
	return lookup(code) != nil
}

// NormalizeList deduplicates and normalizes a list of language codes to ISO 639-1.
func NormalizeList(languages []string) []string {
	if len(languages) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(languages))
	seen := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		trimmed := strings.ToLower(strings.TrimSpace(lang))
		if trimmed == "" {
			continue
		}
		if len(trimmed) > 2 {
			if mapped := ToISO2(trimmed); mapped != "" {
				trimmed = mapped
			}
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
