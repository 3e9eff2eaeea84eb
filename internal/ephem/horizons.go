package ephem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/ls-orrery/internal/astro"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout = 30 * time.Second

	// DefaultRequestInterval spaces requests to avoid rate limiting.
	DefaultRequestInterval = 1500 * time.Millisecond
)

// HorizonsModel queries JPL Horizons for heliocentric ecliptic vectors.
type HorizonsModel struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter

	mu    sync.RWMutex
	cache map[vectorKey]Polar
}

// vectorKey identifies one cached lookup. Julian dates are rounded to the
// minute, which is the finest step Horizons accepts here.
type vectorKey struct {
	naifID int
	minute int64
}

// HorizonsOption configures a HorizonsModel.
type HorizonsOption func(*HorizonsModel)

// WithBaseURL overrides the Horizons endpoint.
func WithBaseURL(u string) HorizonsOption {
	return func(m *HorizonsModel) { m.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) HorizonsOption {
	return func(m *HorizonsModel) { m.client = c }
}

// WithRequestInterval sets the minimum spacing between requests.
// Zero disables pacing.
func WithRequestInterval(d time.Duration) HorizonsOption {
	return func(m *HorizonsModel) {
		if d <= 0 {
			m.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		m.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewHorizonsModel creates a new Horizons API client.
func NewHorizonsModel(opts ...HorizonsOption) *HorizonsModel {
	m := &HorizonsModel{
		client:  &http.Client{Timeout: RequestTimeout},
		baseURL: HorizonsAPIURL,
		limiter: rate.NewLimiter(rate.Every(DefaultRequestInterval), 1),
		cache:   make(map[vectorKey]Polar),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements Model.
func (m *HorizonsModel) Name() string {
	return "horizons"
}

// Has implements Model.
func (m *HorizonsModel) Has(name string) bool {
	_, ok := LookupTarget(name)
	return ok
}

// Position implements Model.
// Results are cached per body and minute; the cache never expires because
// a position for a fixed instant never changes.
func (m *HorizonsModel) Position(name string, jd float64) (Polar, error) {
	t, ok := LookupTarget(name)
	if !ok {
		return Polar{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}

	at := astro.TimeFromJulian(jd).Truncate(time.Minute)
	key := vectorKey{naifID: t.NAIFID, minute: at.Unix() / 60}

	m.mu.RLock()
	cached, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
	defer cancel()

	vec, err := m.queryHeliocentricVectors(ctx, t.NAIFID, at)
	if err != nil {
		return Polar{}, err
	}
	p := polarFromVector(vec)

	m.mu.Lock()
	m.cache[key] = p
	m.mu.Unlock()

	return p, nil
}

// polarFromVector converts heliocentric ecliptic XYZ (AU) to Polar.
func polarFromVector(v astro.Vec3) Polar {
	r := v.Norm()
	if r == 0 {
		return Polar{}
	}
	return Polar{
		Range: r,
		Lon:   normalizeRad(math.Atan2(v.Y, v.X)),
		Lat:   math.Asin(v.Z / r),
	}
}

// queryHeliocentricVectors queries Horizons for heliocentric ecliptic state vectors.
func (m *HorizonsModel) queryHeliocentricVectors(ctx context.Context, naifID int, t time.Time) (astro.Vec3, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return astro.Vec3{}, fmt.Errorf("horizons rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%d'", naifID))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "VECTORS")
	params.Set("CENTER", "'@10'")       // Sun center
	params.Set("REF_PLANE", "ECLIPTIC") // Ecliptic plane
	params.Set("REF_SYSTEM", "ICRF")
	params.Set("VEC_TABLE", "'2'") // Position only
	params.Set("VEC_LABELS", "NO")
	params.Set("OUT_UNITS", "'AU-D'")
	params.Set("START_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(t)))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(t.Add(time.Minute))))
	params.Set("STEP_SIZE", "'1 m'")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return astro.Vec3{}, fmt.Errorf("build horizons request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return astro.Vec3{}, fmt.Errorf("horizons vector request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return astro.Vec3{}, fmt.Errorf("read horizons response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return astro.Vec3{}, fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parseVectorResponse(body)
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseVectorResponse extracts the first position vector between the
// $$SOE and $$EOE markers. Both the labeled form
//
//	X = 1.2E+00 Y = 2.3E+00 Z = 3.4E-01
//
// and the bare three-number form are accepted.
func parseVectorResponse(body []byte) (astro.Vec3, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return astro.Vec3{}, fmt.Errorf("parse horizons JSON: %w", err)
	}
	if resp.Error != "" {
		return astro.Vec3{}, fmt.Errorf("horizons: %s", resp.Error)
	}

	soeIdx := strings.Index(resp.Result, "$$SOE")
	eoeIdx := strings.Index(resp.Result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return astro.Vec3{}, fmt.Errorf("could not find vector data markers")
	}

	for _, line := range strings.Split(resp.Result[soeIdx+5:eoeIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "A.D.") {
			continue
		}
		if strings.Contains(line, "X =") {
			return parseVectorLabeled(line)
		}
		if vec, err := parseVectorUnlabeled(line); err == nil {
			return vec, nil
		}
	}

	return astro.Vec3{}, fmt.Errorf("could not parse vector data")
}

// parseVectorLabeled parses: X = 1.23E+00 Y = 2.34E+00 Z = 3.45E-01
func parseVectorLabeled(line string) (astro.Vec3, error) {
	parts := strings.Split(line, "=")
	if len(parts) < 4 {
		return astro.Vec3{}, fmt.Errorf("invalid labeled format")
	}

	var vals [3]float64
	for i := 0; i < 3; i++ {
		fields := strings.Fields(parts[i+1])
		if len(fields) == 0 {
			return astro.Vec3{}, fmt.Errorf("missing value %d", i)
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return astro.Vec3{}, err
		}
		vals[i] = v
	}
	return astro.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// parseVectorUnlabeled parses: 1.23E+00  2.34E+00  3.45E-01
func parseVectorUnlabeled(line string) (astro.Vec3, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return astro.Vec3{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	var vals [3]float64
	for i := range vals {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return astro.Vec3{}, err
		}
		vals[i] = v
	}
	return astro.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// formatHorizonsTime formats a time for Horizons API.
func formatHorizonsTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
