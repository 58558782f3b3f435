package librarian

import (
	"fmt"
	"strings"

	"librarian/pkg/wikipedia"
)

// ClientFactory yields a Wikipedia client for the requested language
// edition. Implementations share one rate limiter across all editions so
// the outbound budget is process-wide.
type ClientFactory func(language string) *wikipedia.Client

// RegisterWikipediaTools registers the Wikipedia lookup tools on the
// registry. Each handler shapes its result the way agents expect: a
// "success" flag, a human-readable "message" on failure, and flat JSON
// fields on success.
func RegisterWikipediaTools(reg *Registry, clients ClientFactory) error {
	tools := []*Tool{
		searchTool(clients),
		pageInfoTool(clients),
		pageSummaryTool(clients),
		pageExistsTool(clients),
		pageSectionsTool(clients),
		sectionContentTool(clients),
	}

	for _, tool := range tools {
		if err := reg.RegisterTool(tool); err != nil {
			return err
		}
	}
	return nil
}

func searchTool(clients ClientFactory) *Tool {
	return &Tool{
		Name:        "search_wikipedia_pages",
		Description: "Search for Wikipedia pages on a certain word/topic and return the first 5 results with information to help choose the most relevant one",
		InputSchema: objectSchema(map[string]interface{}{
			"query":    stringProp("The search term or phrase"),
			"language": stringProp("Wikipedia language code (default: 'en')"),
		}, "query"),
		Handler: func(args map[string]interface{}) map[string]interface{} {
			query := stringArg(args, "query", "")
			language := stringArg(args, "language", wikipedia.DefaultLanguage)

			if query == "" {
				return failure("query must not be empty", nil)
			}

			results, err := clients(language).Search(query, 5)
			if err != nil {
				return failure(fmt.Sprintf("Error searching Wikipedia for '%s'", query), err)
			}
			if len(results) == 0 {
				return map[string]interface{}{
					"success": false,
					"message": fmt.Sprintf("No results found for query: '%s'", query),
					"results": []interface{}{},
				}
			}

			formatted := make([]map[string]interface{}, 0, len(results))
			for _, result := range results {
				formatted = append(formatted, map[string]interface{}{
					"title":         result.Title,
					"snippet":       stripSearchMarkup(result.Snippet),
					"url":           wikipedia.PageURL(language, result.Title),
					"word_count":    result.WordCount,
					"last_modified": result.Timestamp,
				})
			}

			return map[string]interface{}{
				"success":       true,
				"query":         query,
				"language":      language,
				"total_results": len(formatted),
				"results":       formatted,
			}
		},
	}
}

func pageInfoTool(clients ClientFactory) *Tool {
	return &Tool{
		Name:        "get_wikipedia_page_info",
		Description: "Get detailed information about a specific Wikipedia page including content, summary, and hyperlinked words",
		InputSchema: objectSchema(map[string]interface{}{
			"page_title":           stringProp("The title of the Wikipedia page"),
			"language":             stringProp("Wikipedia language code (default: 'en')"),
			"include_full_content": boolProp("Whether to include full wikitext content (default: false)"),
			"include_categories":   boolProp("Whether to include page categories (default: false)"),
			"include_page_info":    boolProp("Whether to include detailed page metadata (default: false)"),
		}, "page_title"),
		Handler: func(args map[string]interface{}) map[string]interface{} {
			title := stringArg(args, "page_title", "")
			language := stringArg(args, "language", wikipedia.DefaultLanguage)
			client := clients(language)

			if title == "" {
				return failure("page_title must not be empty", nil)
			}

			exists, err := client.PageExists(title)
			if err != nil {
				return failure(fmt.Sprintf("Error retrieving information for page '%s'", title), err)
			}
			if !exists {
				return map[string]interface{}{
					"success":     false,
					"message":     fmt.Sprintf("Page '%s' does not exist on %s.wikipedia.org", title, language),
					"suggestions": "Try checking the spelling or using the search tool first",
				}
			}

			summary, err := client.PageSummary(title)
			if err != nil {
				return failure(fmt.Sprintf("Error retrieving information for page '%s'", title), err)
			}
			extract, err := client.PageExtract(title, 5)
			if err != nil {
				return failure(fmt.Sprintf("Error retrieving information for page '%s'", title), err)
			}
			links, err := client.PageLinks(title, 50)
			if err != nil {
				return failure(fmt.Sprintf("Error retrieving information for page '%s'", title), err)
			}

			if extract == "" {
				extract = "No extract available"
			}

			result := map[string]interface{}{
				"success":    true,
				"page_title": title,
				"language":   language,
				"url":        wikipedia.PageURL(language, title),
				"summary": map[string]interface{}{
					"extract":     summary.Extract,
					"description": summary.Description,
					"type":        summary.Type,
				},
				"content_extract":   extract,
				"hyperlinked_words": links,
			}

			if boolArg(args, "include_categories") {
				categories, err := client.PageCategories(title)
				if err != nil {
					return failure(fmt.Sprintf("Error retrieving categories for page '%s'", title), err)
				}
				result["categories"] = categories
			}

			if boolArg(args, "include_page_info") {
				info, err := client.PageInfo(title)
				if err != nil {
					return failure(fmt.Sprintf("Error retrieving metadata for page '%s'", title), err)
				}
				result["page_info"] = map[string]interface{}{
					"length":        info.Length,
					"last_modified": info.Touched,
					"page_id":       info.PageID,
					"canonical_url": info.CanonicalURL,
				}
			}

			if boolArg(args, "include_full_content") {
				content, err := client.PageContent(title)
				if err != nil {
					return failure(fmt.Sprintf("Error retrieving content for page '%s'", title), err)
				}
				if content == "" {
					content = "Full content not available"
				}
				result["full_content"] = content
			}

			return result
		},
	}
}

func pageSummaryTool(clients ClientFactory) *Tool {
	return &Tool{
		Name:        "get_wikipedia_page_summary",
		Description: "Get a quick summary of a Wikipedia page - lighter version of get_wikipedia_page_info",
		InputSchema: objectSchema(map[string]interface{}{
			"page_title": stringProp("The title of the Wikipedia page"),
			"language":   stringProp("Wikipedia language code (default: 'en')"),
			"sentences":  intProp("Number of sentences to include in extract (default: 3)"),
		}, "page_title"),
		Handler: func(args map[string]interface{}) map[string]interface{} {
			title := stringArg(args, "page_title", "")
			language := stringArg(args, "language", wikipedia.DefaultLanguage)
			sentences := intArg(args, "sentences", 3)
			client := clients(language)

			if title == "" {
				return failure("page_title must not be empty", nil)
			}

			exists, err := client.PageExists(title)
			if err != nil {
				return failure(fmt.Sprintf("Error getting summary for '%s'", title), err)
			}
			if !exists {
				return map[string]interface{}{
					"success": false,
					"message": fmt.Sprintf("Page '%s' does not exist", title),
				}
			}

			summary, err := client.PageSummary(title)
			if err != nil {
				return failure(fmt.Sprintf("Error getting summary for '%s'", title), err)
			}
			extract, err := client.PageExtract(title, sentences)
			if err != nil {
				return failure(fmt.Sprintf("Error getting summary for '%s'", title), err)
			}

			if extract == "" {
				extract = "No extract available"
			}

			return map[string]interface{}{
				"success":     true,
				"page_title":  title,
				"language":    language,
				"url":         wikipedia.PageURL(language, title),
				"summary":     summary.Extract,
				"extract":     extract,
				"description": summary.Description,
			}
		},
	}
}

func pageExistsTool(clients ClientFactory) *Tool {
	return &Tool{
		Name:        "check_wikipedia_page_exists",
		Description: "Check if a Wikipedia page exists before trying to retrieve it",
		InputSchema: objectSchema(map[string]interface{}{
			"page_title": stringProp("The title of the Wikipedia page to check"),
			"language":   stringProp("Wikipedia language code (default: 'en')"),
		}, "page_title"),
		Handler: func(args map[string]interface{}) map[string]interface{} {
			title := stringArg(args, "page_title", "")
			language := stringArg(args, "language", wikipedia.DefaultLanguage)

			if title == "" {
				return failure("page_title must not be empty", nil)
			}

			exists, err := clients(language).PageExists(title)
			if err != nil {
				return failure(fmt.Sprintf("Error checking if page '%s' exists", title), err)
			}

			result := map[string]interface{}{
				"success":    true,
				"page_title": title,
				"language":   language,
				"exists":     exists,
			}
			if exists {
				result["url"] = wikipedia.PageURL(language, title)
				result["message"] = fmt.Sprintf("Page '%s' exists", title)
			} else {
				result["message"] = fmt.Sprintf("Page '%s' does not exist", title)
			}
			return result
		},
	}
}

func pageSectionsTool(clients ClientFactory) *Tool {
	return &Tool{
		Name:        "get_wikipedia_page_sections",
		Description: "List all sections in a Wikipedia page for navigation",
		InputSchema: objectSchema(map[string]interface{}{
			"page_title": stringProp("The title of the Wikipedia page"),
			"language":   stringProp("Wikipedia language code (default: 'en')"),
		}, "page_title"),
		Handler: func(args map[string]interface{}) map[string]interface{} {
			title := stringArg(args, "page_title", "")
			language := stringArg(args, "language", wikipedia.DefaultLanguage)

			if title == "" {
				return failure("page_title must not be empty", nil)
			}

			sections, err := clients(language).PageSections(title)
			if err != nil {
				return failure(fmt.Sprintf("Error listing sections for page '%s'", title), err)
			}

			formatted := make([]map[string]interface{}, 0, len(sections))
			for _, section := range sections {
				formatted = append(formatted, map[string]interface{}{
					"index":  section.Index,
					"title":  section.Line,
					"number": section.Number,
					"level":  section.TOCLevel,
					"anchor": section.Anchor,
				})
			}

			return map[string]interface{}{
				"success":        true,
				"page_title":     title,
				"language":       language,
				"total_sections": len(formatted),
				"sections":       formatted,
			}
		},
	}
}

func sectionContentTool(clients ClientFactory) *Tool {
	return &Tool{
		Name:        "get_wikipedia_page_section_content",
		Description: "Get the content of a specific section of a Wikipedia page, using the section index from get_wikipedia_page_sections",
		InputSchema: objectSchema(map[string]interface{}{
			"page_title":    stringProp("The title of the Wikipedia page"),
			"section_index": stringProp("The section index as reported by get_wikipedia_page_sections"),
			"language":      stringProp("Wikipedia language code (default: 'en')"),
		}, "page_title", "section_index"),
		Handler: func(args map[string]interface{}) map[string]interface{} {
			title := stringArg(args, "page_title", "")
			index := stringArg(args, "section_index", "")
			language := stringArg(args, "language", wikipedia.DefaultLanguage)

			if title == "" {
				return failure("page_title must not be empty", nil)
			}
			if index == "" {
				return failure("section_index must not be empty", nil)
			}

			content, err := clients(language).SectionContent(title, index)
			if err != nil {
				return failure(fmt.Sprintf("Error retrieving section %s of page '%s'", index, title), err)
			}

			return map[string]interface{}{
				"success":       true,
				"page_title":    title,
				"section_index": index,
				"language":      language,
				"content":       content,
			}
		},
	}
}

// stripSearchMarkup removes the searchmatch highlighting spans the search
// API embeds in snippets
func stripSearchMarkup(snippet string) string {
	snippet = strings.ReplaceAll(snippet, `<span class="searchmatch">`, "")
	return strings.ReplaceAll(snippet, "</span>", "")
}

// failure builds the error result shape shared by all handlers
func failure(message string, err error) map[string]interface{} {
	result := map[string]interface{}{
		"success": false,
		"message": message,
	}
	if err != nil {
		result["error"] = err.Error()
		result["message"] = fmt.Sprintf("%s: %v", message, err)
	}
	return result
}

// Argument extraction helpers. Arguments arrive as decoded JSON, so
// numbers are float64 and everything needs a type assertion.

func stringArg(args map[string]interface{}, key, fallback string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return fallback
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	switch val := args[key].(type) {
	case float64:
		return int(val)
	case int:
		return val
	default:
		return fallback
	}
}

func boolArg(args map[string]interface{}, key string) bool {
	val, _ := args[key].(bool)
	return val
}

// Schema construction helpers

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func boolProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}
