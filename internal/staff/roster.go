package staff

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/watplan/watplan/internal/logger"
	"golang.org/x/text/unicode/norm"
)

const (
	// RosterURL lists employees of the whole university, one page at a time.
	RosterURL = "https://usos.wat.edu.pl/kontroler.php?_action=katalog2/osoby/pracownicyJednostki&jed_org_kod=A000000&page="
	// RosterPages is the number of catalogue pages at the time of writing.
	RosterPages = 53
	UserAgent   = "watplan/1.0 (+https://github.com/watplan/watplan)"
	Timeout     = 30 * time.Second
)

// ParseRoster extracts "<title> <First> <Last>" lines from one staff catalogue page.
// Panels without a name or a title element are ignored.
func ParseRoster(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	lines := make([]string, 0)
	doc.Find("td.uwb-staffuser-panel").Each(func(i int, panel *goquery.Selection) {
		name := panel.Find("b").First()
		degree := panel.Find("a.uwb-photo-panel-title").First()
		if name.Length() == 0 || degree.Length() == 0 {
			return
		}

		fullName := strings.TrimSpace(norm.NFC.String(name.Text()))
		title := strings.TrimSpace(strings.ReplaceAll(norm.NFC.String(degree.Text()), fullName, ""))
		title = strings.Join(strings.Fields(title), " ")

		lines = append(lines, strings.TrimSpace(title+" "+fullName))
	})

	return lines, nil
}

// Fetcher downloads the staff catalogue page by page.
type Fetcher struct {
	client  *http.Client
	baseURL string
	pages   int
}

// NewFetcher creates a Fetcher for the public catalogue. pages <= 0 uses RosterPages.
func NewFetcher(baseURL string, pages int, timeout time.Duration) *Fetcher {
	if baseURL == "" {
		baseURL = RosterURL
	}
	if pages <= 0 {
		pages = RosterPages
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		pages:   pages,
	}
}

// FetchListing walks every catalogue page and returns the combined listing.
// A page that fails to download or parse is logged and skipped.
func (f *Fetcher) FetchListing(ctx context.Context) ([]string, error) {
	var all []string
	for page := 1; page <= f.pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lines, err := f.fetchPage(ctx, page)
		if err != nil {
			logger.Warn("Skipping staff page", logger.Fields{"page": page, "error": err.Error()})
			continue
		}
		all = append(all, lines...)
	}

	logger.Info("Fetched staff listing", logger.Fields{"pages": f.pages, "people": len(all)})
	return all, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, page int) ([]string, error) {
	url := fmt.Sprintf("%s%d", f.baseURL, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ParseRoster(resp.Body)
}
