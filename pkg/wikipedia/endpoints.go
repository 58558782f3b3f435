package wikipedia

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLanguage is the Wikipedia language edition used when none is given
	DefaultLanguage = "en"

	// DefaultSearchLimit is the default number of search results per request
	DefaultSearchLimit = 10

	// MaxSearchLimit is the maximum number of search results per request
	MaxSearchLimit = 50
)

// actionAPIURL returns the MediaWiki action API endpoint for a language edition
func actionAPIURL(language string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", language)
}

// restAPIURL returns the Wikimedia REST API base for a language edition
func restAPIURL(language string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1", language)
}

// PageURL returns the canonical article URL for a page title
func PageURL(language, title string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/wiki/%s",
		language, url.PathEscape(strings.ReplaceAll(title, " ", "_")))
}

// searchParams builds the query for list=search
func searchParams(query string, limit int) url.Values {
	if limit <= 0 {
		limit = DefaultSearchLimit
	} else if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	params := baseParams()
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("srprop", "snippet|titlesnippet|size|wordcount|timestamp")
	return params
}

// summaryURL builds the REST summary endpoint for a page title
func summaryURL(base, title string) string {
	encoded := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	return fmt.Sprintf("%s/page/summary/%s", base, encoded)
}

// contentParams builds the query for fetching a page's wikitext
func contentParams(title string) url.Values {
	params := baseParams()
	params.Set("titles", title)
	params.Set("prop", "revisions")
	params.Set("rvprop", "content")
	params.Set("rvslots", "main")
	return params
}

// extractParams builds the query for a plain-text extract
func extractParams(title string, sentences int) url.Values {
	params := baseParams()
	params.Set("titles", title)
	params.Set("prop", "extracts")
	params.Set("exsentences", strconv.Itoa(sentences))
	params.Set("explaintext", "1")
	params.Set("exsectionformat", "plain")
	return params
}

// categoriesParams builds the query for page categories
func categoriesParams(title string) url.Values {
	params := baseParams()
	params.Set("titles", title)
	params.Set("prop", "categories")
	params.Set("cllimit", "max")
	return params
}

// linksParams builds the query for main-namespace page links
func linksParams(title string, limit int) url.Values {
	params := baseParams()
	params.Set("titles", title)
	params.Set("prop", "links")
	params.Set("pllimit", strconv.Itoa(limit))
	params.Set("plnamespace", "0")
	return params
}

// imagesParams builds the query for page images
func imagesParams(title string) url.Values {
	params := baseParams()
	params.Set("titles", title)
	params.Set("prop", "images")
	return params
}

// randomParams builds the query for random main-namespace pages
func randomParams(count int) url.Values {
	params := baseParams()
	params.Set("list", "random")
	params.Set("rnlimit", strconv.Itoa(count))
	params.Set("rnnamespace", "0")
	return params
}

// existsParams builds the minimal query used to probe page existence
func existsParams(title string) url.Values {
	params := baseParams()
	params.Set("titles", title)
	return params
}

// infoParams builds the query for page metadata
func infoParams(title string) url.Values {
	params := baseParams()
	params.Set("titles", title)
	params.Set("prop", "info")
	params.Set("inprop", "url|displaytitle|length|touched")
	return params
}

// sectionsParams builds the parse query listing a page's sections
func sectionsParams(title string) url.Values {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("format", "json")
	params.Set("page", title)
	params.Set("prop", "sections")
	return params
}

// sectionContentParams builds the parse query for one section's wikitext
func sectionContentParams(title, index string) url.Values {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("format", "json")
	params.Set("page", title)
	params.Set("section", index)
	params.Set("prop", "wikitext")
	return params
}

// baseParams returns the action=query boilerplate shared by most requests
func baseParams() url.Values {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	return params
}
