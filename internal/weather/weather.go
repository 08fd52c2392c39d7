package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"todo-board/internal/cache"
	"todo-board/internal/logger"
	"todo-board/internal/models"
)

const (
	DefaultCity    = "São Paulo"
	DefaultBaseURL = "http://api.openweathermap.org/data/2.5/weather"
	DefaultTimeout = 10 * time.Second
)

var lookupCount = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "todoapp_weather_lookups_total",
		Help: "Weather lookups by result (ok, cached, error, disabled)",
	},
	[]string{"result"},
)

type Options struct {
	APIKey   string
	BaseURL  string
	Lang     string
	Timeout  time.Duration
	CacheTTL time.Duration
	// HTTPClient overrides the default client; its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client fetches current conditions from OpenWeather. A nil *Client is valid
// and always reports weather as unavailable.
type Client struct {
	apiKey  string
	baseURL string
	lang    string
	http    *http.Client
	cache   *cache.MemoryCache[models.WeatherSnapshot]
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: opts.BaseURL,
		lang:    opts.Lang,
		http:    httpClient,
		cache:   cache.NewMemory[models.WeatherSnapshot](opts.CacheTTL),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type apiResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Fetch returns nil whenever weather cannot be shown: no key, non-200,
// timeout, transport failure or an unreadable body. It never returns an error.
func (c *Client) Fetch(ctx context.Context, city string) *models.WeatherSnapshot {
	if !c.Enabled() {
		lookupCount.WithLabelValues("disabled").Inc()
		return nil
	}
	if strings.TrimSpace(city) == "" {
		city = DefaultCity
	}

	if snap, ok := c.cache.Get(city); ok {
		lookupCount.WithLabelValues("cached").Inc()
		return &snap
	}

	snap, err := c.fetch(ctx, city)
	if err != nil {
		lookupCount.WithLabelValues("error").Inc()
		logger.Warn(ctx, "weather lookup failed", "city", city, "error", err.Error())
		return nil
	}

	lookupCount.WithLabelValues("ok").Inc()
	c.cache.Set(city, *snap)
	return snap
}

func (c *Client) fetch(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	if c.lang != "" {
		params.Set("lang", c.lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	return body.snapshot()
}

func (r apiResponse) snapshot() (*models.WeatherSnapshot, error) {
	if len(r.Weather) == 0 {
		return nil, fmt.Errorf("weather response has no conditions")
	}

	return &models.WeatherSnapshot{
		City:         r.Name,
		TemperatureC: round(r.Main.Temp),
		Description:  cases.Title(language.Und).String(r.Weather[0].Description),
		Icon:         r.Weather[0].Icon,
		FeelsLikeC:   round(r.Main.FeelsLike),
		HumidityPct:  round(r.Main.Humidity),
		WindKph:      round(r.Wind.Speed * 3.6),
	}, nil
}

func round(v float64) int {
	return int(math.Round(v))
}
