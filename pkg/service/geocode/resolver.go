/*
 * @Description: Nominatim 역지오코딩 및 장소 검색
 * @Author: memorymap
 * @Date: 2026-03-21 18:26:43
 * @LastEditTime: 2026-06-17 02:56:26
 * @LastEditors: memorymap
 */

// Package geocode turns coordinates into place descriptions and searches places by name
// against a Nominatim-compatible HTTP API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/memorymap/memorymap-app/pkg/config"
	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
	"github.com/memorymap/memorymap-app/pkg/service/utility"
)

const (
	defaultAcceptLanguage = "ko-KR,ko;q=0.9,en;q=0.8"
	defaultUserAgent      = "MemoryMap/1.0"
	reverseCacheTTL       = 24 * time.Hour
	reverseCachePrefix    = "geocode:reverse:"
	sharedLookupTimeout   = 30 * time.Second
)

// LocationResolver is what the upload flow needs from the geocoder.
type LocationResolver interface {
	// ReverseGeocode never fails; on any error it returns the coordinates as text.
	ReverseGeocode(ctx context.Context, lat, lon float64) string
	Search(ctx context.Context, query string) ([]model.Place, error)
}

type Options struct {
	BaseURL        string
	UserAgent      string
	AcceptLanguage string
	RatePerSecond  float64
}

// OptionsFromConfig reads the [Geocode] section.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:        cfg.GetString(config.KeyGeocodeBaseURL),
		UserAgent:      cfg.GetString(config.KeyGeocodeUserAgent),
		AcceptLanguage: cfg.GetString(config.KeyGeocodeAcceptLanguage),
		RatePerSecond:  cfg.GetFloat64(config.KeyGeocodeRatePerSecond),
	}
}

type Resolver struct {
	baseURL        string
	userAgent      string
	acceptLanguage string
	httpClient     *http.Client
	cache          utility.CacheService
	limiter        *rate.Limiter
	group          singleflight.Group
}

// NewResolver builds a Resolver. A nil client uses a client without a timeout;
// cancellation comes only from the caller's context. A nil cache disables caching.
func NewResolver(opts Options, cache utility.CacheService, client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	return &Resolver{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		userAgent:      opts.UserAgent,
		acceptLanguage: normalizeAcceptLanguage(opts.AcceptLanguage),
		httpClient:     client,
		cache:          cache,
		limiter:        rate.NewLimiter(limit, 1),
	}
}

// normalizeAcceptLanguage keeps a valid header value and replaces anything unparseable with the default.
func normalizeAcceptLanguage(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultAcceptLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		log.Printf("[Geocode] ⚠️ invalid Accept-Language %q, using %q", value, defaultAcceptLanguage)
		return defaultAcceptLanguage
	}
	return value
}

// Address is the subset of Nominatim address details used for descriptions.
type Address struct {
	Country      string `json:"country"`
	City         string `json:"city"`
	Borough      string `json:"borough"`
	CityDistrict string `json:"city_district"`
	Town         string `json:"town"`
	Suburb       string `json:"suburb"`
	Quarter      string `json:"quarter"`
	Road         string `json:"road"`
}

type reverseResponse struct {
	DisplayName string   `json:"display_name"`
	Address     *Address `json:"address"`
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// CoordinateText is the degraded description used when no address is available.
func CoordinateText(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// FormatAddress renders "country, city, district, suburb".
func FormatAddress(addr *Address) string {
	district := firstNonEmpty(addr.Borough, addr.CityDistrict, addr.Town)
	suburb := firstNonEmpty(addr.Suburb, addr.Quarter, addr.Road)
	return fmt.Sprintf("%s, %s, %s, %s", addr.Country, addr.City, district, suburb)
}

func (r *Resolver) ReverseGeocode(ctx context.Context, lat, lon float64) string {
	key := reverseCachePrefix + CoordinateText(lat, lon)
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, key); err == nil && cached != "" {
			return cached
		}
	}

	// The lookup is shared by every caller of the same coordinate, so it must not
	// inherit one caller's cancellation.
	ch := r.group.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()
		return r.reverse(shared, lat, lon)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return CoordinateText(lat, lon)
	}
	if res.Err != nil {
		log.Printf("[Geocode] reverse lookup for %s failed: %v", CoordinateText(lat, lon), res.Err)
		return CoordinateText(lat, lon)
	}

	description := res.Val.(string)
	if r.cache != nil {
		if err := r.cache.Set(ctx, key, description, reverseCacheTTL); err != nil {
			log.Printf("[Geocode] ⚠️ cache write failed: %v", err)
		}
	}
	return description
}

func (r *Resolver) reverse(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("zoom", "18")
	params.Set("addressdetails", "1")

	var body reverseResponse
	if err := r.getJSON(ctx, "/reverse", params, &body); err != nil {
		return "", err
	}
	if body.Address != nil {
		return FormatAddress(body.Address), nil
	}
	if body.DisplayName == "" {
		return "", fmt.Errorf("empty reverse geocoding result")
	}
	return body.DisplayName, nil
}

// Search looks places up by free text. Every result gets a fresh token in Place.ID.
func (r *Resolver) Search(ctx context.Context, query string) ([]model.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Place{}, nil
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", constant.PlaceSearchLimit))

	var results []searchResult
	if err := r.getJSON(ctx, "/search", params, &results); err != nil {
		return nil, fmt.Errorf("place search %q: %w", query, err)
	}

	places := make([]model.Place, 0, len(results))
	for _, res := range results {
		places = append(places, model.Place{
			ID:          uuid.NewString(),
			DisplayName: res.DisplayName,
			Lat:         res.Lat,
			Lon:         res.Lon,
		})
	}
	return places, nil
}

func (r *Resolver) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept-Language", r.acceptLanguage)
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
