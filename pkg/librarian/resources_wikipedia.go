package librarian

import (
	"encoding/json"
)

// RegisterWikipediaResources registers the static Wikipedia reference
// resources: language codes, API endpoints, usage guidance, and the JSON
// schemas of the tool results.
func RegisterWikipediaResources(reg *Registry) error {
	resources := []*Resource{
		{
			URI:         "wikipedia://languages",
			Name:        "Wikipedia Language Codes",
			Description: "Common Wikipedia language editions and their codes",
			MimeType:    "application/json",
			Content:     func() (string, error) { return marshalIndent(languageCodes) },
		},
		{
			URI:         "wikipedia://api-endpoints",
			Name:        "Wikipedia API Endpoints",
			Description: "Upstream MediaWiki endpoints the librarian tools call",
			MimeType:    "application/json",
			Content:     func() (string, error) { return marshalIndent(apiEndpoints) },
		},
		{
			URI:         "wikipedia://usage-examples",
			Name:        "Wikipedia Tools Usage Examples",
			Description: "Example invocations for each Wikipedia tool",
			MimeType:    "application/json",
			Content:     func() (string, error) { return marshalIndent(usageExamples) },
		},
		{
			URI:         "wikipedia://best-practices",
			Name:        "Wikipedia Tools Best Practices",
			Description: "Guidance for using the Wikipedia tools efficiently",
			MimeType:    "application/json",
			Content:     func() (string, error) { return marshalIndent(bestPractices) },
		},
		{
			URI:         "wikipedia://schema/search-result",
			Name:        "Wikipedia Search Result Schema",
			Description: "JSON schema for results returned by search_wikipedia_pages",
			MimeType:    "application/schema+json",
			Content:     func() (string, error) { return marshalIndent(searchResultSchema) },
		},
		{
			URI:         "wikipedia://schema/page-info",
			Name:        "Wikipedia Page Info Schema",
			Description: "JSON schema for results returned by get_wikipedia_page_info",
			MimeType:    "application/schema+json",
			Content:     func() (string, error) { return marshalIndent(pageInfoSchema) },
		},
	}

	for _, res := range resources {
		if err := reg.RegisterResource(res); err != nil {
			return err
		}
	}
	return nil
}

func marshalIndent(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var languageCodes = map[string]interface{}{
	"description": "Frequently used Wikipedia language editions",
	"languages": map[string]string{
		"en": "English",
		"es": "Spanish",
		"fr": "French",
		"de": "German",
		"it": "Italian",
		"pt": "Portuguese",
		"ru": "Russian",
		"ja": "Japanese",
		"zh": "Chinese",
		"ar": "Arabic",
		"nl": "Dutch",
		"pl": "Polish",
		"sv": "Swedish",
		"ko": "Korean",
		"tr": "Turkish",
	},
	"note": "Any valid Wikipedia subdomain works as a language code",
}

var apiEndpoints = map[string]interface{}{
	"action_api": map[string]string{
		"url":         "https://{language}.wikipedia.org/w/api.php",
		"description": "MediaWiki action API used for search, content, links, categories, sections and metadata",
	},
	"rest_api": map[string]string{
		"url":         "https://{language}.wikipedia.org/api/rest_v1",
		"description": "Wikimedia REST API used for page summaries",
	},
	"rate_limiting": "All calls share one token bucket; denied calls surface as rate_limit errors",
}

var usageExamples = map[string]interface{}{
	"search_then_fetch": map[string]interface{}{
		"description": "Search first, then fetch details for the best match",
		"steps": []map[string]interface{}{
			{"tool": "search_wikipedia_pages", "arguments": map[string]interface{}{"query": "Go programming language"}},
			{"tool": "get_wikipedia_page_summary", "arguments": map[string]interface{}{"page_title": "Go (programming language)"}},
		},
	},
	"sectioned_reading": map[string]interface{}{
		"description": "List sections, then fetch only the one you need",
		"steps": []map[string]interface{}{
			{"tool": "get_wikipedia_page_sections", "arguments": map[string]interface{}{"page_title": "Alan Turing"}},
			{"tool": "get_wikipedia_page_section_content", "arguments": map[string]interface{}{"page_title": "Alan Turing", "section_index": "3"}},
		},
	},
	"existence_check": map[string]interface{}{
		"description": "Cheaply verify a title before requesting heavy content",
		"steps": []map[string]interface{}{
			{"tool": "check_wikipedia_page_exists", "arguments": map[string]interface{}{"page_title": "Quantum computing"}},
		},
	},
}

var bestPractices = map[string]interface{}{
	"practices": []string{
		"Use search_wikipedia_pages first when the exact page title is unknown",
		"Prefer get_wikipedia_page_summary over get_wikipedia_page_info unless links or metadata are needed",
		"Only request full_content when raw wiki markup is genuinely required; it is large",
		"Fetch individual sections instead of full pages for long articles",
		"Check page existence before issuing multiple follow-up calls for the same title",
		"Lookups are rate limited per process; batch-style loops should tolerate denials and retry later",
	},
}

var searchResultSchema = map[string]interface{}{
	"$schema":     "http://json-schema.org/draft-07/schema#",
	"title":       "Wikipedia Search Result",
	"description": "Schema for Wikipedia search results",
	"type":        "object",
	"properties": map[string]interface{}{
		"success":       map[string]interface{}{"type": "boolean", "description": "Whether the search was successful"},
		"query":         map[string]interface{}{"type": "string", "description": "The original search query"},
		"language":      map[string]interface{}{"type": "string", "description": "Wikipedia language code used"},
		"total_results": map[string]interface{}{"type": "integer", "description": "Number of results returned"},
		"results": map[string]interface{}{
			"type":        "array",
			"description": "Array of search results",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":         map[string]interface{}{"type": "string", "description": "Page title"},
					"snippet":       map[string]interface{}{"type": "string", "description": "Text snippet from the page"},
					"url":           map[string]interface{}{"type": "string", "format": "uri", "description": "Direct URL to the Wikipedia page"},
					"word_count":    map[string]interface{}{"type": "integer", "description": "Number of words in the page"},
					"last_modified": map[string]interface{}{"type": "string", "description": "Last modification timestamp"},
				},
				"required": []string{"title", "snippet", "url"},
			},
		},
	},
	"required": []string{"success"},
}

var pageInfoSchema = map[string]interface{}{
	"$schema":     "http://json-schema.org/draft-07/schema#",
	"title":       "Wikipedia Page Information",
	"description": "Schema for detailed Wikipedia page information",
	"type":        "object",
	"properties": map[string]interface{}{
		"success":    map[string]interface{}{"type": "boolean", "description": "Whether the request was successful"},
		"page_title": map[string]interface{}{"type": "string", "description": "The title of the Wikipedia page"},
		"language":   map[string]interface{}{"type": "string", "description": "Wikipedia language code"},
		"url":        map[string]interface{}{"type": "string", "format": "uri", "description": "Direct URL to the Wikipedia page"},
		"summary": map[string]interface{}{
			"type":        "object",
			"description": "Page summary information",
			"properties": map[string]interface{}{
				"extract":     map[string]interface{}{"type": "string", "description": "Summary extract from the page"},
				"description": map[string]interface{}{"type": "string", "description": "Brief description of the page"},
				"type":        map[string]interface{}{"type": "string", "description": "Type of the page"},
			},
		},
		"content_extract":   map[string]interface{}{"type": "string", "description": "Plain text extract of the page"},
		"hyperlinked_words": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Titles of linked pages"},
		"categories":        map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Page categories, when requested"},
		"page_info":         map[string]interface{}{"type": "object", "description": "Page metadata, when requested"},
		"full_content":      map[string]interface{}{"type": "string", "description": "Full wikitext content, when requested"},
	},
	"required": []string{"success"},
}
