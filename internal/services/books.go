package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/princeprakhar/bookmind/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	bookLookupUserAgent  = "BookMindApp/1.0"
	maxDescriptionLength = 500
)

// BookInfo is the best-effort metadata found for a title.
type BookInfo struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	CoverURL    string `json:"cover_url"`
	Description string `json:"description"`
}

type BookLookup interface {
	// Lookup never fails; any problem is reported as not found.
	Lookup(ctx context.Context, title string) (*BookInfo, bool)
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title       string   `json:"title"`
			Authors     []string `json:"authors"`
			Description string   `json:"description"`
			ImageLinks  struct {
				Thumbnail      string `json:"thumbnail"`
				SmallThumbnail string `json:"smallThumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// GoogleBooksService queries the Google Books volumes API.
type GoogleBooksService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

func NewGoogleBooksService(baseURL, apiKey string, perMinute int) *GoogleBooksService {
	if perMinute < 1 {
		perMinute = 1
	}
	return &GoogleBooksService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

func (g *GoogleBooksService) Lookup(ctx context.Context, title string) (*BookInfo, bool) {
	title = utils.SanitizeString(title)
	if title == "" {
		return nil, false
	}

	info, err := g.fetch(ctx, title)
	if err != nil {
		logger.WithError(err).WithField("title", title).Warn("book lookup failed")
		return nil, false
	}
	if info == nil {
		return nil, false
	}
	return info, true
}

func (g *GoogleBooksService) fetch(ctx context.Context, title string) (*BookInfo, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for lookup slot: %w", err)
	}

	params := url.Values{}
	params.Set("q", title)
	params.Set("maxResults", "1")
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("User-Agent", bookLookupUserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("book lookup rate limited upstream (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("book lookup API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup response: %w", err)
	}

	var result volumesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse lookup response: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	volume := result.Items[0].VolumeInfo

	info := &BookInfo{
		Title:       volume.Title,
		Author:      strings.Join(volume.Authors, ", "),
		Description: utils.Truncate(volume.Description, maxDescriptionLength),
	}
	if info.Title == "" {
		info.Title = "Untitled"
	}
	if info.Author == "" {
		info.Author = "Unknown author"
	}
	if info.Description == "" {
		info.Description = "No description available."
	}

	cover := volume.ImageLinks.Thumbnail
	if cover == "" {
		cover = volume.ImageLinks.SmallThumbnail
	}
	info.CoverURL = strings.Replace(cover, "http://", "https://", 1)

	return info, nil
}
