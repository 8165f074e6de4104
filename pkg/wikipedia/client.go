package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAPIURL  = "https://en.wikipedia.org/w/api.php"
	defaultWikiURL = "https://en.wikipedia.org/wiki/"

	userAgent = "WikiVoice/1.0 (https://github.com/wikivoice; contact@wikivoice.app)"

	// Articles below this word count are disambiguation or stub pages that
	// would pollute the context.
	MinArticleWords = 500

	// Length of the excerpt attached to each source for response display.
	sourceExcerptLength = 200

	searchLimit      = 10
	extractSentences = 10

	extractCacheTTL = 12 * time.Hour
)

// SearchResult is a Wikipedia search hit with relevance info. It only lives
// between the search stage and the extract stage.
type SearchResult struct {
	Title     string
	Snippet   string
	WordCount int
}

// Source is a Wikipedia article used for context. Excerpt is the short
// display excerpt, not the full extract.
type Source struct {
	Title   string
	Excerpt string
	URL     string
}

// Client talks to the MediaWiki API. The redis cache is optional; a nil
// client disables extract caching.
type Client struct {
	apiURL     string
	httpClient *http.Client
	cache      *redis.Client
	logger     *zap.Logger
}

func NewClient(httpClient *http.Client, cache *redis.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiURL:     defaultAPIURL,
		httpClient: httpClient,
		cache:      cache,
		logger:     logger,
	}
}

// WithAPIURL overrides the MediaWiki endpoint. Used by tests and
// self-hosted wiki deployments.
func (c *Client) WithAPIURL(apiURL string) *Client {
	c.apiURL = apiURL
	return c
}

// --- API response shapes (internal) ---

type searchResponse struct {
	Query struct {
		Search []struct {
			Title     string `json:"title"`
			Snippet   string `json:"snippet"`
			WordCount int    `json:"wordcount"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// SearchArticles queries the full-text search index and filters out articles
// below the minimum word count. At most three survivors are returned, in the
// order the search service ranked them. Failure degrades to an empty slice.
func (c *Client) SearchArticles(ctx context.Context, query string, limit int) []SearchResult {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("srprop", "snippet|wordcount")
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		c.logger.Warn("wikipedia search failed",
			zap.String("module", "wikipedia"),
			zap.String("query", query),
			zap.Error(err))
		return nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("wikipedia search parse failed",
			zap.String("module", "wikipedia"),
			zap.Error(err))
		return nil
	}

	results := make([]SearchResult, 0, len(parsed.Query.Search))
	for _, hit := range parsed.Query.Search {
		if hit.WordCount < MinArticleWords {
			c.logger.Debug("filtered short article",
				zap.String("module", "wikipedia"),
				zap.String("title", hit.Title),
				zap.Int("word_count", hit.WordCount))
			continue
		}
		results = append(results, SearchResult{
			Title:     hit.Title,
			Snippet:   hit.Snippet,
			WordCount: hit.WordCount,
		})
	}

	if len(results) > 3 {
		results = results[:3]
	}
	return results
}

// GetArticleExtract fetches a bounded plain-text extract by exact title.
// Returns "" when the article has no extract or the fetch fails.
func (c *Client) GetArticleExtract(ctx context.Context, title string) string {
	cacheKey := "wiki:extract:" + title
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			return cached
		}
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", title)
	params.Set("prop", "extracts")
	params.Set("exsentences", strconv.Itoa(extractSentences))
	params.Set("explaintext", "true")
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		c.logger.Warn("wikipedia extract fetch failed",
			zap.String("module", "wikipedia"),
			zap.String("title", title),
			zap.Error(err))
		return ""
	}

	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("wikipedia extract parse failed",
			zap.String("module", "wikipedia"),
			zap.Error(err))
		return ""
	}

	for _, page := range parsed.Query.Pages {
		if page.Extract != "" {
			if c.cache != nil {
				// Best effort; a down cache never blocks retrieval.
				c.cache.Set(ctx, cacheKey, page.Extract, extractCacheTTL)
			}
			return page.Extract
		}
	}
	return ""
}

// GetContextForTopic searches for the topic, fetches extracts for the top
// candidates and assembles them into Markdown sections. The per-candidate
// extract fetches run concurrently but the assembled output is always in
// candidate order. Never returns an error: failure means ("", nil).
func (c *Client) GetContextForTopic(ctx context.Context, topic string, maxArticles int) (string, []Source) {
	results := c.SearchArticles(ctx, topic, searchLimit)
	if len(results) == 0 {
		c.logger.Info("no wikipedia results",
			zap.String("module", "wikipedia"),
			zap.String("topic", topic))
		return "", nil
	}
	if len(results) > maxArticles {
		results = results[:maxArticles]
	}

	extracts := make([]string, len(results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxArticles)
	for i, result := range results {
		g.Go(func() error {
			extracts[i] = c.GetArticleExtract(gctx, result.Title)
			return nil
		})
	}
	// Workers never return errors; extract failures degrade to "".
	_ = g.Wait()

	var contextParts []string
	var sources []Source
	for i, result := range results {
		extract := extracts[i]
		if extract == "" {
			continue
		}
		contextParts = append(contextParts, fmt.Sprintf("## %s\n%s", result.Title, extract))

		excerpt := extract
		if runes := []rune(excerpt); len(runes) > sourceExcerptLength {
			excerpt = string(runes[:sourceExcerptLength])
		}
		sources = append(sources, Source{
			Title:   result.Title,
			Excerpt: excerpt,
			URL:     defaultWikiURL + strings.ReplaceAll(result.Title, " ", "_"),
		})
	}

	return strings.Join(contextParts, "\n\n"), sources
}
