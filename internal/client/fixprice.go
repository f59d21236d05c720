package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/config"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// MaxPageLimit is the maximum page size the upstream listing endpoint
// accepts. Page-count math is fixed to this value.
const MaxPageLimit = 99

// countHeader carries the total item count of a category on listing responses.
const countHeader = "x-count"

type FixPriceClient interface {
	GetCategoryMenu(ctx context.Context) ([]domain.CategoryNode, error)
	CountPages(ctx context.Context, categorySlug string) (int, error)
	GetCatalogPage(ctx context.Context, categorySlug string, pageNumber int) (*domain.CatalogPage, error)
	GetProductRecord(ctx context.Context, itemURL string, section []string) (*domain.CatalogRecord, error)
	GetCities(ctx context.Context) ([]domain.City, error)
}

type fixPriceClient struct {
	rl         ratelimit.Limiter
	config     config.FixPriceConfig
	baseURL    string
	httpClient *resty.Client
	parser     *recordParser
}

func NewFixPriceClient(cfg config.FixPriceConfig) FixPriceClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:129.0) Gecko/20100101 Firefox/129.0").
		SetHeader("Accept", "application/json, text/plain, */*").
		SetHeader("Accept-Language", "en-US,en;q=0.5").
		SetHeader("Content-Type", "application/json").
		SetHeader("Referer", "https://fix-price.com/").
		SetHeader("Origin", "https://fix-price.com").
		SetHeader("x-language", cfg.Language).
		SetHeader("x-city", strconv.Itoa(cfg.CityID)).
		SetHeader("X-Key", cfg.APIKey)

	return &fixPriceClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		config:     cfg,
		baseURL:    cfg.BaseURL,
		httpClient: client,
		parser:     newRecordParser(cfg.SiteURL),
	}
}

// GetCategoryMenu fetches the full category menu. Called once at startup;
// a failure here is fatal for the run.
func (c *fixPriceClient) GetCategoryMenu(ctx context.Context) ([]domain.CategoryNode, error) {
	url := c.baseURL + "/category/menu"

	body, _, err := c.fetchJSON(ctx, http.MethodGet, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category menu: %w", err)
	}

	var menu []domain.CategoryNode
	if err := json.Unmarshal(body, &menu); err != nil {
		return nil, fmt.Errorf("failed to parse category menu: %w", err)
	}

	log.Debugf("Fetched category menu with %d root categories", len(menu))
	return menu, nil
}

// CountPages probes a category with a single-item page and derives the page
// count from the x-count response header.
func (c *fixPriceClient) CountPages(ctx context.Context, categorySlug string) (int, error) {
	url := c.listingURL(categorySlug, 1, 1)

	_, headers, err := c.fetchJSON(ctx, http.MethodPost, url)
	if err != nil {
		return 0, fmt.Errorf("failed to probe category %s: %w", categorySlug, err)
	}

	countValue := headers.Get(countHeader)
	if countValue == "" {
		return 0, fmt.Errorf("missing %s header for category %s", countHeader, categorySlug)
	}

	totalItems, err := strconv.Atoi(countValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s header %q for category %s: %w", countHeader, countValue, categorySlug, err)
	}

	pages := pageCount(totalItems)
	log.Debugf("Category %s has %d items across %d pages", categorySlug, totalItems, pages)
	return pages, nil
}

func (c *fixPriceClient) GetCatalogPage(ctx context.Context, categorySlug string, pageNumber int) (*domain.CatalogPage, error) {
	url := c.listingURL(categorySlug, MaxPageLimit, pageNumber)

	body, _, err := c.fetchJSON(ctx, http.MethodPost, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %d of category %s: %w", pageNumber, categorySlug, err)
	}

	var items []domain.ListingItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse page %d of category %s: %w", pageNumber, categorySlug, err)
	}

	log.Debugf("Successfully fetched and parsed page %d with %d items", pageNumber, len(items))
	return &domain.CatalogPage{
		CategorySlug: categorySlug,
		PageNumber:   pageNumber,
		Items:        items,
	}, nil
}

// GetProductRecord fetches one product detail and normalizes it into a
// CatalogRecord. Section is the resolved hierarchy of the triggering category.
func (c *fixPriceClient) GetProductRecord(ctx context.Context, itemURL string, section []string) (*domain.CatalogRecord, error) {
	url := fmt.Sprintf("%s/product/%s", c.baseURL, itemURL)

	body, headers, err := c.fetchJSON(ctx, http.MethodGet, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %s: %w", itemURL, err)
	}

	record, err := c.parser.ParseProduct(body, headers.Get("Date"), section)
	if err != nil {
		return nil, fmt.Errorf("failed to parse item %s: %w", itemURL, err)
	}

	log.Debugf("Successfully fetched and normalized item %s", itemURL)
	return record, nil
}

func (c *fixPriceClient) GetCities(ctx context.Context) ([]domain.City, error) {
	url := c.baseURL + "/location/city"

	body, _, err := c.fetchJSON(ctx, http.MethodGet, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch city list: %w", err)
	}

	var cities []domain.City
	if err := json.Unmarshal(body, &cities); err != nil {
		return nil, fmt.Errorf("failed to parse city list: %w", err)
	}

	return cities, nil
}

func (c *fixPriceClient) listingURL(categorySlug string, limit, page int) string {
	return fmt.Sprintf("%s/product/in/%s?limit=%d&page=%d", c.baseURL, categorySlug, limit, page)
}

func (c *fixPriceClient) fetchJSON(ctx context.Context, method, url string) ([]byte, http.Header, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Execute(method, url)

	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return nil, nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.Bytes(), resp.Header(), nil
}

// pageCount derives the number of listing pages from a total item count with
// the fixed MaxPageLimit page size. Zero items means zero pages.
func pageCount(totalItems int) int {
	if totalItems <= 0 {
		return 0
	}
	return (totalItems + MaxPageLimit - 1) / MaxPageLimit
}
