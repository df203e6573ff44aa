package opensubtitles

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"subsearch/internal/language"
	"subsearch/internal/providers"
)

const rowIDPrefix = "name"

// parseResults reads the search result table. Each row id is "name<subid>";
// the release name sits in the title attribute of the first span, or on the
// line after the movie link when the span is missing.
func parseResults(doc *goquery.Document, downloadBase string) providers.Listing {
	listing := providers.NewListing()
	doc.Find(`tr[id^="` + rowIDPrefix + `"]`).Each(func(_ int, row *goquery.Selection) {
		id, _ := row.Attr("id")
		id = strings.TrimPrefix(id, rowIDPrefix)
		if id == "" {
			return
		}
		name := releaseName(row.Find("td").First())
		if name == "" {
			return
		}
		listing.Add(name, downloadURL(downloadBase, id))
	})
	return listing
}

func releaseName(cell *goquery.Selection) string {
	if title, ok := cell.Find("span[title]").First().Attr("title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	movie := strings.TrimSpace(cell.Find("a.bnone").First().Text())
	for _, line := range strings.Split(cell.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && line != movie {
			return line
		}
	}
	return ""
}

func downloadURL(base, id string) string {
	return fmt.Sprintf("%s/en/download/sub/%s", base, id)
}

func languageSegment(sess *providers.Session) string {
	return "sublanguageid-" + language.ToISO3(sess.Language())
}
