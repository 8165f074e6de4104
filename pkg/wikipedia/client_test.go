package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

type fakeWiki struct {
	searchHits []map[string]interface{}
	extracts   map[string]string
	failAll    bool
}

func (f *fakeWiki) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if f.failAll {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		q := r.URL.Query()
		switch {
		case q.Get("list") == "search":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"query": map[string]interface{}{"search": f.searchHits},
			})
		case q.Get("prop") == "extracts":
			title := q.Get("titles")
			pages := map[string]interface{}{
				"1": map[string]interface{}{"title": title, "extract": f.extracts[title]},
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"query": map[string]interface{}{"pages": pages},
			})
		default:
			t.Errorf("unexpected request: %s", r.URL.String())
		}
	}
}

func hit(title string, wordCount int) map[string]interface{} {
	return map[string]interface{}{
		"title":     title,
		"snippet":   "snippet for " + title,
		"wordcount": wordCount,
	}
}

func TestSearchArticlesFiltersShortArticles(t *testing.T) {
	fake := &fakeWiki{
		searchHits: []map[string]interface{}{
			hit("Rolex", 5000),
			hit("Rolex (disambiguation)", 120),
			hit("Rolex Daytona", 2200),
		},
	}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	client := NewClient(srv.Client(), nil, nil).WithAPIURL(srv.URL)
	results := client.SearchArticles(context.Background(), "Rolex", searchLimit)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Title != "Rolex" || results[1].Title != "Rolex Daytona" {
		t.Errorf("unexpected titles: %q, %q", results[0].Title, results[1].Title)
	}
}

func TestSearchArticlesCapsAtThree(t *testing.T) {
	var hits []map[string]interface{}
	for i := 0; i < 6; i++ {
		hits = append(hits, hit(fmt.Sprintf("Article %d", i), 1000+i))
	}
	srv := httptest.NewServer((&fakeWiki{searchHits: hits}).handler(t))
	defer srv.Close()

	client := NewClient(srv.Client(), nil, nil).WithAPIURL(srv.URL)
	results := client.SearchArticles(context.Background(), "anything", searchLimit)

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
}

func TestSearchArticlesDegradesOnFailure(t *testing.T) {
	srv := httptest.NewServer((&fakeWiki{failAll: true}).handler(t))
	defer srv.Close()

	client := NewClient(srv.Client(), nil, nil).WithAPIURL(srv.URL)
	if results := client.SearchArticles(context.Background(), "Rolex", searchLimit); results != nil {
		t.Errorf("results = %v, want nil", results)
	}
}

func TestGetContextForTopic(t *testing.T) {
	fake := &fakeWiki{
		searchHits: []map[string]interface{}{
			hit("Rolex", 5000),
			hit("Rolex Daytona", 2200),
		},
		extracts: map[string]string{
			"Rolex":         "Rolex SA is a Swiss watch designer and manufacturer.",
			"Rolex Daytona": "The Rolex Daytona is a mechanical chronograph wristwatch.",
		},
	}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	client := NewClient(srv.Client(), nil, nil).WithAPIURL(srv.URL)
	contextText, sources := client.GetContextForTopic(context.Background(), "Rolex", 3)

	if !strings.HasPrefix(contextText, "## Rolex\n") {
		t.Errorf("context does not start with first article section: %q", contextText)
	}
	if !strings.Contains(contextText, "\n\n## Rolex Daytona\n") {
		t.Errorf("context missing second article section: %q", contextText)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
	if sources[0].Title != "Rolex" || sources[1].Title != "Rolex Daytona" {
		t.Errorf("source order wrong: %q, %q", sources[0].Title, sources[1].Title)
	}
	if sources[1].URL != "https://en.wikipedia.org/wiki/Rolex_Daytona" {
		t.Errorf("URL = %q, want underscores", sources[1].URL)
	}
}

func TestGetContextForTopicSkipsEmptyExtracts(t *testing.T) {
	fake := &fakeWiki{
		searchHits: []map[string]interface{}{
			hit("Gone", 900),
			hit("Here", 900),
		},
		extracts: map[string]string{
			"Here": "Here is an article with content.",
		},
	}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	client := NewClient(srv.Client(), nil, nil).WithAPIURL(srv.URL)
	contextText, sources := client.GetContextForTopic(context.Background(), "whatever", 3)

	if strings.Contains(contextText, "## Gone") {
		t.Errorf("context includes article without extract: %q", contextText)
	}
	if len(sources) != 1 || sources[0].Title != "Here" {
		t.Fatalf("sources = %v, want only Here", sources)
	}
}

func TestGetContextForTopicTotalFailure(t *testing.T) {
	srv := httptest.NewServer((&fakeWiki{failAll: true}).handler(t))
	defer srv.Close()

	client := NewClient(srv.Client(), nil, nil).WithAPIURL(srv.URL)
	contextText, sources := client.GetContextForTopic(context.Background(), "Rolex", 3)

	if contextText != "" || sources != nil {
		t.Errorf("got (%q, %v), want empty degradation", contextText, sources)
	}
}

func TestSourceExcerptTruncated(t *testing.T) {
	long := strings.Repeat("a", 400)
	fake := &fakeWiki{
		searchHits: []map[string]interface{}{hit("Long", 900)},
		extracts:   map[string]string{"Long": long},
	}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	client := NewClient(srv.Client(), nil, nil).WithAPIURL(srv.URL)
	_, sources := client.GetContextForTopic(context.Background(), "Long", 3)

	if len(sources) != 1 {
		t.Fatalf("sources = %d, want 1", len(sources))
	}
	if len(sources[0].Excerpt) != sourceExcerptLength {
		t.Errorf("excerpt length = %d, want %d", len(sources[0].Excerpt), sourceExcerptLength)
	}
}

func TestSourceExcerptTruncatedOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 400)
	fake := &fakeWiki{
		searchHits: []map[string]interface{}{hit("Long", 900)},
		extracts:   map[string]string{"Long": long},
	}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	client := NewClient(srv.Client(), nil, nil).WithAPIURL(srv.URL)
	_, sources := client.GetContextForTopic(context.Background(), "Long", 3)

	if len(sources) != 1 {
		t.Fatalf("sources = %d, want 1", len(sources))
	}
	if got := utf8.RuneCountInString(sources[0].Excerpt); got != sourceExcerptLength {
		t.Errorf("excerpt runes = %d, want %d", got, sourceExcerptLength)
	}
	if !utf8.ValidString(sources[0].Excerpt) {
		t.Error("excerpt is not valid UTF-8")
	}
}
