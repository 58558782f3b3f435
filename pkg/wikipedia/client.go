package wikipedia

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "librarian/pkg/errors"
	"librarian/pkg/logger"
	"librarian/pkg/metrics"
	"librarian/pkg/ratelimit"
	"librarian/pkg/retry"
)

// Client talks to the MediaWiki action API and the Wikimedia REST API
// for one language edition. Every outbound request is gated by the
// rate limiter before it is issued.
type Client struct {
	http       *ratelimit.Client
	logger     logger.Logger
	language   string
	apiURL     string
	restURL    string
	userAgent  string
	maxRetries int
}

// NewClient creates a Wikipedia API client for the given language edition.
// A nil limiter is replaced with a default bucket (capacity 20, 10 tokens/s,
// REJECT), matching the documented environment defaults.
func NewClient(language string, limiter ratelimit.Limiter, timeout time.Duration, log logger.Logger) *Client {
	if language == "" {
		language = DefaultLanguage
	}
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter, _ = ratelimit.NewTokenBucket(20, 10.0)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		http:       ratelimit.NewClient(limiter, &http.Client{Timeout: timeout}, log),
		logger:     log,
		language:   language,
		apiURL:     actionAPIURL(language),
		restURL:    restAPIURL(language),
		userAgent:  "Librarian/1.0 (https://github.com/user/librarian)",
		maxRetries: 3,
	}
}

// Language returns the language edition this client queries
func (c *Client) Language() string {
	return c.language
}

// SetUserAgent overrides the User-Agent header sent upstream
func (c *Client) SetUserAgent(ua string) {
	if ua != "" {
		c.userAgent = ua
	}
}

// SetMaxRetries overrides the retry budget for transient failures
func (c *Client) SetMaxRetries(n int) {
	if n >= 0 {
		c.maxRetries = n
	}
}

// SetBaseURLs overrides the action API and REST API endpoints, for
// mirrors and tests
func (c *Client) SetBaseURLs(apiURL, restURL string) {
	if apiURL != "" {
		c.apiURL = apiURL
	}
	if restURL != "" {
		c.restURL = restURL
	}
}

// doRequest performs a single rate-limited request with standard headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		if errs.IsType(err, errs.ErrorTypeRateLimit) {
			metrics.RecordRateLimit(false)
			return nil, err
		}
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}

	metrics.RecordRateLimit(true)
	metrics.ObserveUpstreamRequest(resp.StatusCode, duration)

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// doRequestWithRetry retries transient failures with backoff. Rate
// limiter denials are surfaced immediately; retry policy for those
// belongs to the caller.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	cfg := &retry.Config{
		MaxAttempts: c.maxRetries + 1,
		Backoff:     retry.DefaultBackoff(),
		RetryIf:     retry.DefaultRetryIf,
		Context:     req.Context(),
		Logger:      c.logger,
	}

	return retry.DoWithResult(func() (*http.Response, error) {
		resp, err := c.doRequest(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, &errs.Error{
				Type:    errs.ErrorTypeServerError,
				Message: fmt.Sprintf("server returned status %d", resp.StatusCode),
				Code:    resp.StatusCode,
			}
		}
		return resp, nil
	}, cfg)
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(fullURL string, target interface{}) error {
	req, err := http.NewRequest(http.MethodGet, fullURL, nil)
	if err != nil {
		return &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          fullURL,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// queryJSON performs a GET against the action API with the given parameters
func (c *Client) queryJSON(params url.Values, target interface{}) error {
	return c.getJSON(c.apiURL+"?"+params.Encode(), target)
}

// checkResponseStatus maps HTTP status codes to typed errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &errs.Error{
			Type:    errs.ErrorTypeRateLimit,
			Message: "upstream rate limit exceeded",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 500:
		return &errs.Error{
			Type:    errs.ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 400:
		return &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	default:
		return nil
	}
}

// firstPage returns the first existing page from a query.pages map, or a
// not_found error when the API marked the page missing.
func firstPage(pages map[string]queryPage, title string) (*queryPage, error) {
	for id, page := range pages {
		if id == "-1" || page.Missing != nil {
			continue
		}
		p := page
		return &p, nil
	}
	return nil, &errs.Error{
		Type:    errs.ErrorTypeNotFound,
		Message: fmt.Sprintf("page %q not found", title),
		Code:    http.StatusNotFound,
	}
}

// Search performs a full-text search and returns up to limit results
func (c *Client) Search(query string, limit int) ([]SearchResult, error) {
	var resp searchResponse
	if err := c.queryJSON(searchParams(query, limit), &resp); err != nil {
		return nil, err
	}
	return resp.Query.Search, nil
}

// PageSummary fetches the REST API summary of a page
func (c *Client) PageSummary(title string) (*PageSummary, error) {
	var summary PageSummary
	if err := c.getJSON(summaryURL(c.restURL, title), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// PageContent fetches the full wikitext of a page
func (c *Client) PageContent(title string) (string, error) {
	var resp pagesResponse
	if err := c.queryJSON(contentParams(title), &resp); err != nil {
		return "", err
	}

	page, err := firstPage(resp.Query.Pages, title)
	if err != nil {
		return "", err
	}
	if len(page.Revisions) == 0 {
		return "", nil
	}
	return page.Revisions[0].Slots.Main.Content, nil
}

// PageExtract fetches a plain-text extract limited to the given number
// of sentences
func (c *Client) PageExtract(title string, sentences int) (string, error) {
	if sentences <= 0 {
		sentences = 3
	}

	var resp pagesResponse
	if err := c.queryJSON(extractParams(title, sentences), &resp); err != nil {
		return "", err
	}

	page, err := firstPage(resp.Query.Pages, title)
	if err != nil {
		return "", err
	}
	return page.Extract, nil
}

// PageCategories returns the page's category names without the
// "Category:" prefix
func (c *Client) PageCategories(title string) ([]string, error) {
	var resp pagesResponse
	if err := c.queryJSON(categoriesParams(title), &resp); err != nil {
		return nil, err
	}

	page, err := firstPage(resp.Query.Pages, title)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(page.Categories))
	for _, cat := range page.Categories {
		categories = append(categories, strings.TrimPrefix(cat.Title, "Category:"))
	}
	return categories, nil
}

// PageLinks returns up to limit main-namespace page titles linked from
// the page
func (c *Client) PageLinks(title string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}

	var resp pagesResponse
	if err := c.queryJSON(linksParams(title, limit), &resp); err != nil {
		return nil, err
	}

	page, err := firstPage(resp.Query.Pages, title)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0, len(page.Links))
	for _, link := range page.Links {
		links = append(links, link.Title)
	}
	return links, nil
}

// PageImages returns the images used on the page
func (c *Client) PageImages(title string) ([]ImageRef, error) {
	var resp pagesResponse
	if err := c.queryJSON(imagesParams(title), &resp); err != nil {
		return nil, err
	}

	page, err := firstPage(resp.Query.Pages, title)
	if err != nil {
		return nil, err
	}

	images := make([]ImageRef, 0, len(page.Images))
	for _, img := range page.Images {
		images = append(images, ImageRef{Title: img.Title})
	}
	return images, nil
}

// RandomPages returns count random main-namespace page titles
func (c *Client) RandomPages(count int) ([]string, error) {
	if count <= 0 {
		count = 1
	}

	var resp randomResponse
	if err := c.queryJSON(randomParams(count), &resp); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(resp.Query.Random))
	for _, page := range resp.Query.Random {
		titles = append(titles, page.Title)
	}
	return titles, nil
}

// PageExists reports whether a page exists on this language edition
func (c *Client) PageExists(title string) (bool, error) {
	var resp pagesResponse
	if err := c.queryJSON(existsParams(title), &resp); err != nil {
		return false, err
	}

	for id, page := range resp.Query.Pages {
		if id != "-1" && page.Missing == nil {
			return true, nil
		}
	}
	return false, nil
}

// PageInfo fetches basic metadata about a page
func (c *Client) PageInfo(title string) (*PageInfo, error) {
	var resp pagesResponse
	if err := c.queryJSON(infoParams(title), &resp); err != nil {
		return nil, err
	}

	page, err := firstPage(resp.Query.Pages, title)
	if err != nil {
		return nil, err
	}

	return &PageInfo{
		PageID:       page.PageID,
		Title:        page.Title,
		Length:       page.Length,
		Touched:      page.Touched,
		FullURL:      page.FullURL,
		CanonicalURL: page.CanonicalURL,
	}, nil
}

// PageSections lists the page's table of contents
func (c *Client) PageSections(title string) ([]Section, error) {
	var resp parseResponse
	if err := c.queryJSON(sectionsParams(title), &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, parseAPIError(resp.Error, title)
	}
	return resp.Parse.Sections, nil
}

// SectionContent fetches the wikitext of a single section by its index
// as reported by PageSections
func (c *Client) SectionContent(title, index string) (string, error) {
	var resp parseResponse
	if err := c.queryJSON(sectionContentParams(title, index), &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", parseAPIError(resp.Error, title)
	}
	return resp.Parse.Wikitext.Content, nil
}

// parseAPIError maps an action=parse error object to a typed error
func parseAPIError(apiErr *apiError, title string) error {
	errType := errs.ErrorTypeUnknown
	if apiErr.Code == "missingtitle" {
		errType = errs.ErrorTypeNotFound
	}
	return &errs.Error{
		Type:    errType,
		Message: fmt.Sprintf("parse failed for %q: %s", title, apiErr.Info),
	}
}
