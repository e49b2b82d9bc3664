package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// IndexDateLayout is the date format used by the remote file index.
const IndexDateLayout = "2006-01-02 15:04"

// ErrNoReleases indicates the index listed no valid dataset releases.
var ErrNoReleases = errors.New("discovery: no releases found in index")

// Release is one dataset entry discovered in the remote file index.
type Release struct {
	// Date is the publisher-assigned release date, the dataset's version.
	Date time.Time
	// Href is the release directory path relative to the index URL.
	Href string
}

// Client discovers dataset releases from the Receita Federal file index.
type Client struct {
	indexURL    string
	archiveName string
	http        *http.Client
}

// NewClient creates a discovery client for the given index URL. archiveName
// is the fixed archive filename published under each release directory.
func NewClient(indexURL, archiveName string) *Client {
	return &Client{
		indexURL:    indexURL,
		archiveName: archiveName,
		http:        &http.Client{Timeout: 60 * time.Second},
	}
}

// Releases fetches the index page and returns every valid release entry.
// Rows without a parseable date (the "-" placeholder included) and links
// flagged as temporary/staging are skipped.
func (c *Client) Releases(ctx context.Context) ([]Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.indexURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build index request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file index returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file index: %w", err)
	}

	return parseIndex(doc), nil
}

// Latest returns the release with the maximum date, or ErrNoReleases.
// Ties are resolved arbitrarily (first entry with the maximum date wins).
func (c *Client) Latest(ctx context.Context) (Release, error) {
	releases, err := c.Releases(ctx)
	if err != nil {
		return Release{}, err
	}
	return MostRecent(releases)
}

// ArchiveURL returns the download URL for a release's dataset archive,
// following the <index>/<release-prefix>/<fixed-filename> template.
func (c *Client) ArchiveURL(rel Release) string {
	base := strings.TrimSuffix(c.indexURL, "/")
	href := strings.TrimSuffix(strings.TrimPrefix(rel.Href, "/"), "/")
	return base + "/" + href + "/" + c.archiveName
}

// MostRecent picks the release with the maximum date from entries.
func MostRecent(releases []Release) (Release, error) {
	if len(releases) == 0 {
		return Release{}, ErrNoReleases
	}
	best := releases[0]
	for _, r := range releases[1:] {
		if r.Date.After(best.Date) {
			best = r
		}
	}
	return best, nil
}

func parseIndex(doc *goquery.Document) []Release {
	var releases []Release

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(2).Text())
		if dateText == "" || dateText == "-" {
			return
		}
		date, err := time.Parse(IndexDateLayout, dateText)
		if err != nil {
			return
		}

		href, ok := cells.Eq(1).Find("a").Attr("href")
		if !ok || strings.Contains(href, "temp") {
			return
		}

		releases = append(releases, Release{Date: date, Href: href})
	})

	return releases
}
