package research

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"reel-pipeline/config"
	"reel-pipeline/types"
)

// Scraper builds a BusinessProfile from a business website
type Scraper struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new Scraper
func New(cfg *config.Config) *Scraper {
	timeout := time.Duration(cfg.Research.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Scraper{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var (
	titleRe    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaDescRe = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]+content=["']([^"']+)["']`)
	ogImageRe  = regexp.MustCompile(`(?is)<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']+)["']`)
	imgSrcRe   = regexp.MustCompile(`(?is)<img[^>]+src=["']([^"']+)["']`)
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?[0-9][0-9\s().\-]{7,16}[0-9]`)
	telHrefRe  = regexp.MustCompile(`(?i)href=["']tel:([^"']+)["']`)
	hoursRe    = regexp.MustCompile(`(?i)((?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?\s*[-–—]\s*(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?[:\s]*[0-9]{1,2}[:.][0-9]{2}\s*(?:am|pm)?\s*[-–—]\s*[0-9]{1,2}[:.][0-9]{2}\s*(?:am|pm)?)`)
)

// Run fetches the business homepage and extracts contact details, photos and
// the logo. Extraction is best-effort: any miss just leaves the field empty.
func (s *Scraper) Run(ctx context.Context) (*types.BusinessProfile, error) {
	siteURL := s.cfg.Business.WebsiteURL
	if siteURL == "" {
		return nil, fmt.Errorf("business.website_url not set in config")
	}

	log.Printf("[research] Scraping business site: %s", siteURL)

	html, err := s.fetchPage(ctx, siteURL)
	if err != nil {
		return nil, fmt.Errorf("fetch homepage: %w", err)
	}

	profile := &types.BusinessProfile{
		Website:    siteURL,
		BookingURL: s.cfg.Business.BookingURL,
		Rating:     s.cfg.Business.Rating,
	}

	profile.Name = extractName(html, siteURL)
	profile.Tagline = firstMatch(metaDescRe, html)
	profile.Email = firstMatch(emailRe, html)
	profile.Phone = extractPhone(html)
	profile.Hours = firstMatch(hoursRe, html)
	profile.LogoURL = extractLogo(html, siteURL)
	profile.PhotoURLs = extractPhotos(html, siteURL, s.maxPhotos())

	// The QR code should point somewhere bookable; the homepage is the
	// fallback when no booking link is configured
	if profile.BookingURL == "" {
		profile.BookingURL = siteURL
	}

	log.Printf("[research] Profile: %q — %d photos, phone=%v, email=%v, logo=%v",
		profile.Name, len(profile.PhotoURLs), profile.Phone != "", profile.Email != "", profile.LogoURL != "")
	return profile, nil
}

func (s *Scraper) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ReelPipeline/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Scraper) maxPhotos() int {
	if s.cfg.Research.MaxPhotos > 0 {
		return s.cfg.Research.MaxPhotos
	}
	return 8
}

// extractName takes the <title> up to the first separator, falling back to the
// site's host name
func extractName(html, siteURL string) string {
	title := firstMatch(titleRe, html)
	for _, sep := range []string{" | ", " – ", " — ", " - "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
			break
		}
	}
	title = strings.TrimSpace(title)
	if title != "" {
		return title
	}
	if u, err := url.Parse(siteURL); err == nil {
		return strings.TrimPrefix(u.Hostname(), "www.")
	}
	return ""
}

func extractPhone(html string) string {
	if m := telHrefRe.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(phoneRe.FindString(html))
}

// extractLogo prefers an <img> whose src or class mentions "logo"
func extractLogo(html, siteURL string) string {
	for _, m := range imgSrcRe.FindAllStringSubmatch(html, -1) {
		src := m[1]
		if strings.Contains(strings.ToLower(src), "logo") {
			return absoluteURL(siteURL, src)
		}
	}
	return ""
}

// extractPhotos collects candidate segment backgrounds: the og:image first,
// then content images, skipping icons, logos and tracking pixels
func extractPhotos(html, siteURL string, max int) []string {
	var photos []string
	seen := map[string]bool{}

	add := func(src string) {
		abs := absoluteURL(siteURL, src)
		if abs == "" || seen[abs] {
			return
		}
		lower := strings.ToLower(abs)
		if strings.Contains(lower, "logo") || strings.Contains(lower, "icon") ||
			strings.HasSuffix(lower, ".svg") || strings.HasSuffix(lower, ".gif") {
			return
		}
		seen[abs] = true
		photos = append(photos, abs)
	}

	if og := firstMatch(ogImageRe, html); og != "" {
		add(og)
	}
	for _, m := range imgSrcRe.FindAllStringSubmatch(html, -1) {
		if len(photos) >= max {
			break
		}
		add(m[1])
	}
	return photos
}

func absoluteURL(base, href string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return ""
	}
	hu, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	abs := bu.ResolveReference(hu)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

func firstMatch(re *regexp.Regexp, html string) string {
	m := re.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	if len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(m[0])
}
