package main

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/aluiziolira/go-live-dashboard/feed"
)

const testBaseURL = "http://api.test/api"

func runCLI(t *testing.T, transport *httpmock.MockTransport, input string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"DASHBOARD_API_URL", "DASHBOARD_CRYPTO_API_URL", "DASHBOARD_TIMEOUT", "DASHBOARD_PAGE_SIZE", "DASHBOARD_CACHE_SIZE", "DASHBOARD_DEMO_FALLBACK", "DASHBOARD_METRICS_ADDR"} {
		t.Setenv(key, "")
	}

	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(input), &out, &errOut)
	a.transport = transport
	a.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	cmd := a.command()
	cmd.SetArgs(append([]string{"--api-url", testBaseURL, "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func articlesPage(page, pages, total, limit int) string {
	items := make([]string, 0, limit)
	for i := 0; i < limit && (page-1)*limit+i < total; i++ {
		n := (page-1)*limit + i + 1
		items = append(items, fmt.Sprintf(`{"_id": "a%d", "title": "Article %d", "link": "https://news.test/%d", "score": %d, "comments": 1, "scrapedAt": "2024-05-01T11:55:00.000Z"}`, n, n, n, 100-n))
	}
	return fmt.Sprintf(`{"data": [%s], "pagination": {"currentPage": %d, "totalPages": %d, "totalItems": %d, "itemsPerPage": %d}}`,
		strings.Join(items, ","), page, pages, total, limit)
}

func TestArticlesList(t *testing.T) {
	transport := httpmock.NewMockTransport()
	var query string
	transport.RegisterResponder("GET", testBaseURL+"/articles", func(req *http.Request) (*http.Response, error) {
		query = req.URL.RawQuery
		return httpmock.NewStringResponse(http.StatusOK, articlesPage(2, 3, 25, 10)), nil
	})

	out, err := runCLI(t, transport, "", "articles", "list", "--sort", "score", "--order", "desc", "--limit", "10", "--page", "2")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if query != "limit=10&page=2&sortBy=score&sortOrder=desc" {
		t.Fatalf("query = %q", query)
	}
	for _, want := range []string{"Article 11", "Article 20", "Showing 11-20 of 25 articles", "5 minutes ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestArticlesListRejectsUnknownSort(t *testing.T) {
	transport := httpmock.NewMockTransport()
	_, err := runCLI(t, transport, "", "articles", "list", "--sort", "rank")
	if !errors.Is(err, feed.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if transport.GetTotalCallCount() != 0 {
		t.Fatalf("no request expected")
	}
}

func TestArticlesListExport(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", testBaseURL+"/articles", httpmock.NewStringResponder(http.StatusOK, articlesPage(1, 1, 3, 20)))

	base := filepath.Join(t.TempDir(), "out", "articles")
	if _, err := runCLI(t, transport, "", "articles", "list", "-o", base, "--format", "both"); err != nil {
		t.Fatalf("run: %v", err)
	}

	raw, err := os.ReadFile(base + ".csv")
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if lines := strings.Count(string(raw), "\n"); lines != 4 {
		t.Fatalf("csv lines = %d, want 4", lines)
	}
	if _, err := os.Stat(base + ".jsonl"); err != nil {
		t.Fatalf("jsonl missing: %v", err)
	}
}

func TestCryptoListDemoFallback(t *testing.T) {
	refused := httpmock.NewErrorResponder(&net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)})

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", testBaseURL+"/crypto", refused)

	if _, err := runCLI(t, transport, "", "crypto", "list"); err == nil {
		t.Fatalf("expected error without demo fallback")
	}

	out, err := runCLI(t, transport, "", "crypto", "list", "--demo-fallback")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"showing demo data", "BTC", "Showing 1-5 of 5 cryptocurrencies"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCryptoSeparateBaseURL(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://markets.test/api/crypto/symbol/ETH", httpmock.NewStringResponder(http.StatusOK,
		`{"data": {"_id": "c2", "name": "Ethereum", "symbol": "ETH", "price": 3500.5, "marketCap": 420000000000, "volume24h": 15000000000, "change24h": -1.25, "rank": 2, "timestamp": "2024-05-01T11:00:00.000Z"}}`))

	out, err := runCLI(t, transport, "", "--crypto-api-url", "http://markets.test/api", "crypto", "symbol", "eth")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"Ethereum", "$3,500.50", "-1.25%", "$420.00B"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDeleteReportsServerMessage(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("DELETE", testBaseURL+"/articles/missing", httpmock.NewStringResponder(http.StatusNotFound, `{"message": "Article not found"}`))

	_, err := runCLI(t, transport, "", "articles", "delete", "missing")
	if err == nil || !strings.Contains(err.Error(), "Article not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestScrapeCommand(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", testBaseURL+"/articles/scrape", httpmock.NewStringResponder(http.StatusOK, `{"success": true, "message": "Scraping started"}`))
	transport.RegisterResponder("GET", testBaseURL+"/articles/stats", httpmock.NewStringResponder(http.StatusOK, `{"data": {"totalArticles": 1500, "todayArticles": 30, "averageScore": 51.5}}`))

	out, err := runCLI(t, transport, "", "articles", "scrape")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"Scraping started", "1,500"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHealth(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", testBaseURL+"/health", httpmock.NewStringResponder(http.StatusOK, `{"status": "OK", "message": "Server is running"}`))

	out, err := runCLI(t, transport, "", "health")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "OK (Server is running)") {
		t.Fatalf("output = %q", out)
	}
}

func TestHealthChecksSeparateCryptoBackend(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", testBaseURL+"/health", httpmock.NewStringResponder(http.StatusOK, `{"status": "OK"}`))
	transport.RegisterResponder("GET", "http://markets.test/api/health", httpmock.NewStringResponder(http.StatusServiceUnavailable, `{"message": "maintenance"}`))

	out, err := runCLI(t, transport, "", "--crypto-api-url", "http://markets.test/api", "health")
	if err == nil || !strings.Contains(err.Error(), "http://markets.test/api") || !strings.Contains(err.Error(), "maintenance") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, testBaseURL+": OK") {
		t.Fatalf("output = %q", out)
	}
	if got := transport.GetCallCountInfo()["GET http://markets.test/api/health"]; got != 1 {
		t.Fatalf("crypto health calls = %d, want 1", got)
	}
}

func TestHealthSharedBackendProbedOnce(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", testBaseURL+"/health", httpmock.NewStringResponder(http.StatusOK, `{"status": "OK"}`))

	if _, err := runCLI(t, transport, "", "health"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := transport.GetTotalCallCount(); got != 1 {
		t.Fatalf("call count = %d, want 1", got)
	}
}

func TestInteractiveSession(t *testing.T) {
	transport := httpmock.NewMockTransport()
	var queries []string
	transport.RegisterResponder("GET", testBaseURL+"/articles", func(req *http.Request) (*http.Response, error) {
		queries = append(queries, req.URL.RawQuery)
		return httpmock.NewStringResponse(http.StatusOK, articlesPage(1, 1, 2, 20)), nil
	})
	transport.RegisterResponder("GET", testBaseURL+"/articles/stats", httpmock.NewStringResponder(http.StatusOK, `{"data": {"totalArticles": 2, "todayArticles": 2, "averageScore": 98.5}}`))
	transport.RegisterResponder("GET", testBaseURL+"/articles/recent", httpmock.NewStringResponder(http.StatusOK, `{"data": []}`))
	transport.RegisterResponder("DELETE", testBaseURL+"/articles/a1", httpmock.NewStringResponder(http.StatusOK, `{"success": true}`))

	input := strings.Join([]string{
		`search "go generics"`,
		"sort title asc",
		"sort rank",
		"sort score",
		"page two",
		"delete a1",
		"bogus",
		"quit",
	}, "\n")
	out, err := runCLI(t, transport, input, "interactive", "news")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{
		"limit=20&page=1&sortBy=scrapedAt&sortOrder=desc",
		"limit=20&page=1&search=go+generics&sortBy=scrapedAt&sortOrder=desc",
		"limit=20&page=1&search=go+generics&sortBy=title&sortOrder=asc",
		"limit=20&page=1&search=go+generics&sortBy=score&sortOrder=asc",
	}
	if len(queries) != len(want) {
		t.Fatalf("queries = %v, want %v", queries, want)
	}
	for i := range want {
		if queries[i] != want[i] {
			t.Fatalf("query %d = %q, want %q", i, queries[i], want[i])
		}
	}

	for _, msg := range []string{`cannot be sorted by "rank"`, `"two" is not a number`, "Deleted a1", `unknown command "bogus"`, "Showing 1-1 of 1 articles"} {
		if !strings.Contains(out, msg) {
			t.Errorf("output missing %q:\n%s", msg, out)
		}
	}
}
