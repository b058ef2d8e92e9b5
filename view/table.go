package view

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/aluiziolira/go-live-dashboard/models"
)

const maxTitleWidth = 60

// Table collects rows and renders them borderless.
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable returns a table writing to w.
func NewTable(w io.Writer, headers ...string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
	return &Table{table: table, header: headers}
}

// AddRow appends one row.
func (t *Table) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Render writes the header and every row.
func (t *Table) Render() error {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return fmt.Errorf("table rows: %w", err)
	}
	if err := t.table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// Articles renders a page of articles.
func Articles(w io.Writer, items []models.Article, now time.Time) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No articles found")
		return err
	}
	t := NewTable(w, "ID", "Title", "Site", "Score", "Comments", "Scraped")
	for _, a := range items {
		t.AddRow(
			a.ID,
			truncate(a.Title, maxTitleWidth),
			a.Hostname(),
			strconv.Itoa(a.Score),
			strconv.Itoa(a.Comments),
			RelativeTime(a.ScrapedAt, now),
		)
	}
	return t.Render()
}

// Crypto renders a page of market snapshots.
func Crypto(w io.Writer, items []models.CryptoSnapshot, now time.Time) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No cryptocurrency data found")
		return err
	}
	t := NewTable(w, "Rank", "Symbol", "Name", "Price", "24h", "Market Cap", "Volume", "Updated", "ID")
	for _, c := range items {
		t.AddRow(
			"#"+strconv.Itoa(c.Rank),
			c.Symbol,
			c.Name,
			FormatPrice(c.Price),
			FormatChange(c.Change24h),
			FormatMarketCap(c.MarketCap),
			FormatVolume(c.Volume24h),
			RelativeTime(c.Timestamp, now),
			c.ID,
		)
	}
	return t.Render()
}

// ArticleStats renders the news summary cards as a two-column table.
func ArticleStats(w io.Writer, s *models.ArticleStats, now time.Time) error {
	if s == nil {
		s = &models.ArticleStats{}
	}
	t := NewTable(w, "Metric", "Value")
	t.AddRow("Total Articles", FormatCount(s.TotalArticles))
	t.AddRow("Today's Articles", FormatCount(s.TodayArticles))
	t.AddRow("Average Score", strconv.FormatFloat(s.AverageScore, 'f', 1, 64))
	if s.TopArticle != nil {
		t.AddRow("Top Article", truncate(s.TopArticle.Title, maxTitleWidth))
	}
	t.AddRow("Last Scrape", RelativeTimePtr(s.LastScrape, now))
	return t.Render()
}

// CryptoStats renders the market summary cards as a two-column table.
func CryptoStats(w io.Writer, s *models.CryptoStats, now time.Time) error {
	if s == nil {
		s = &models.CryptoStats{}
	}
	t := NewTable(w, "Metric", "Value")
	t.AddRow("Total Cryptocurrencies", FormatCount(s.TotalCrypto))
	t.AddRow("Today's Updates", FormatCount(s.TodayCrypto))
	if s.TopCrypto != nil {
		t.AddRow("Top Crypto", fmt.Sprintf("%s (%s)", s.TopCrypto.Name, FormatPrice(s.TopCrypto.Price)))
	} else {
		t.AddRow("Top Crypto", "N/A")
	}
	t.AddRow("Last Update", RelativeTimePtr(s.LastScrape, now))
	return t.Render()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
