package wikipedia

// SearchResult is one hit from a full-text search
type SearchResult struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Size      int    `json:"size"`
	WordCount int    `json:"wordcount"`
	Timestamp string `json:"timestamp"`
}

// PageSummary is the REST API summary of a page
type PageSummary struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	Timestamp   string `json:"timestamp"`
}

// PageInfo holds basic metadata about a page
type PageInfo struct {
	PageID       int    `json:"pageid"`
	Title        string `json:"title"`
	Length       int    `json:"length"`
	Touched      string `json:"touched"`
	FullURL      string `json:"fullurl"`
	CanonicalURL string `json:"canonicalurl"`
}

// Section describes one entry of a page's table of contents
type Section struct {
	TOCLevel int    `json:"toclevel"`
	Level    string `json:"level"`
	Line     string `json:"line"`
	Number   string `json:"number"`
	Index    string `json:"index"`
	Anchor   string `json:"anchor"`
}

// ImageRef names an image used on a page
type ImageRef struct {
	Title string `json:"title"`
}

// searchResponse is the action API envelope for list=search
type searchResponse struct {
	Query struct {
		Search []SearchResult `json:"search"`
	} `json:"query"`
}

// titleRef is the {title: ...} shape shared by categories, links and images
type titleRef struct {
	Title string `json:"title"`
}

// queryPage is one entry of the query.pages map; which fields are
// populated depends on the prop parameters of the request
type queryPage struct {
	PageID       int        `json:"pageid"`
	Title        string     `json:"title"`
	Missing      *string    `json:"missing,omitempty"`
	Extract      string     `json:"extract"`
	Length       int        `json:"length"`
	Touched      string     `json:"touched"`
	FullURL      string     `json:"fullurl"`
	CanonicalURL string     `json:"canonicalurl"`
	Categories   []titleRef `json:"categories"`
	Links        []titleRef `json:"links"`
	Images       []titleRef `json:"images"`
	Revisions    []struct {
		Slots struct {
			Main struct {
				Content string `json:"*"`
			} `json:"main"`
		} `json:"slots"`
	} `json:"revisions"`
}

// pagesResponse is the action API envelope for titles= queries.
// Pages is keyed by page ID; "-1" marks a missing page.
type pagesResponse struct {
	Query struct {
		Pages map[string]queryPage `json:"pages"`
	} `json:"query"`
}

// randomResponse is the action API envelope for list=random
type randomResponse struct {
	Query struct {
		Random []struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"random"`
	} `json:"query"`
}

// parseResponse is the action=parse envelope for sections and wikitext
type parseResponse struct {
	Parse struct {
		Title    string    `json:"title"`
		PageID   int       `json:"pageid"`
		Sections []Section `json:"sections"`
		Wikitext struct {
			Content string `json:"*"`
		} `json:"wikitext"`
	} `json:"parse"`
	Error *apiError `json:"error,omitempty"`
}

// apiError is the error object the action API embeds in a 200 response
type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}
