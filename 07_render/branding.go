package render

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"reel-pipeline/types"
)

// brandingReserveSeconds is how much of the nominal last-segment window is
// handed to the end card when segment boundaries exist
const brandingReserveSeconds = 1.5

// brandingTailSeconds is the fixed tail reserved for the end card when the
// manifest has no segment boundaries (animated-video-only reels)
const brandingTailSeconds = 4.0

const (
	cardWidth  = 1080
	cardHeight = 1920
)

// visualEndTime is the timestamp where the main visuals stop and the branding
// card begins. Without branding the visuals own the whole timeline.
func visualEndTime(m *types.ReelManifest) float64 {
	if m.Branding == nil {
		return m.DurationSeconds
	}
	if n := len(m.Segments); n > 0 {
		return m.Segments[n-1].Start + brandingReserveSeconds
	}
	end := m.DurationSeconds - brandingTailSeconds
	if half := m.DurationSeconds / 2; end < half {
		end = half
	}
	return end
}

// truncateVisuals drops clips starting at or after the boundary and clamps
// clips spanning it so they end exactly at the boundary
func truncateVisuals(t Track, boundary float64) Track {
	var kept []Clip
	for _, c := range t.Clips {
		if c.Start >= boundary {
			continue
		}
		if c.Start+c.Length > boundary {
			c.Length = boundary - c.Start
		}
		kept = append(kept, c)
	}
	t.Clips = kept
	return t
}

// buildEndCard resolves the branding assets and composes the end-card clip,
// spanning [visualEnd, duration). Logo fetch and QR generation have no
// ordering dependency, so they run concurrently. Either failing degrades to a
// fallback; the compile never aborts here.
func (c *Compiler) buildEndCard(ctx context.Context, b *types.Branding, visualEnd, duration float64) Clip {
	var logoSrc, qrSrc string

	g, gctx := errgroup.WithContext(ctx)
	if b.LogoURL != "" {
		g.Go(func() error {
			data, err := c.assets.FetchImageAsBase64(gctx, b.LogoURL)
			if err != nil {
				log.Printf("[render] Warning: logo inline failed: %v — falling back to remote URL", err)
				return nil
			}
			logoSrc = data
			return nil
		})
	}
	if b.QRTargetURL != "" {
		g.Go(func() error {
			data, err := c.assets.GenerateQRCode(b.QRTargetURL)
			if err != nil {
				log.Printf("[render] Warning: QR generation failed: %v — falling back to placeholder", err)
				return nil
			}
			qrSrc = data
			return nil
		})
	}
	g.Wait() // workers log and swallow their own failures

	if logoSrc == "" {
		logoSrc = b.LogoURL
	}

	return Clip{
		Asset:      NewHTMLAsset(endCardHTML(b, logoSrc, qrSrc), endCardCSS(), cardWidth, cardHeight),
		Start:      visualEnd,
		Length:     duration - visualEnd,
		Transition: &Transition{In: transitionFade},
	}
}

// endCardHTML composes the three-zone card: pulsing call-to-action headline,
// QR-dominant center, and a bottom row with contact details and the logo.
func endCardHTML(b *types.Branding, logoSrc, qrSrc string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="card">`)

	if cta := callToAction(b, qrSrc != ""); cta != "" {
		fmt.Fprintf(&sb, `<div class="cta">%s</div>`, html.EscapeString(cta))
	}

	if qrSrc != "" {
		fmt.Fprintf(&sb, `<div class="qr"><img src="%s" alt="QR"/></div>`, qrSrc)
	} else {
		sb.WriteString(`<div class="qr placeholder">Link in bio</div>`)
	}

	sb.WriteString(`<div class="bottom">`)
	sb.WriteString(contactBlock(b))
	if logoSrc != "" {
		fmt.Fprintf(&sb, `<img class="logo" src="%s" alt=""/>`, logoSrc)
	} else if b.BusinessName != "" {
		fmt.Fprintf(&sb, `<div class="badge">%s</div>`, html.EscapeString(b.BusinessName))
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`</div>`)
	return sb.String()
}

// callToAction returns the headline text, empty when there is nothing to point
// the viewer at. Wording differs with and without a QR code.
func callToAction(b *types.Branding, hasQR bool) string {
	if !hasQR && !hasContactDetails(b) {
		return ""
	}
	if b.CallToAction != "" {
		return b.CallToAction
	}
	if hasQR {
		return "Scan to book your visit"
	}
	return "Learn more below"
}

func hasContactDetails(b *types.Branding) bool {
	return b.Address != "" || b.Hours != "" || b.Phone != "" || b.Email != ""
}

func contactBlock(b *types.Branding) string {
	var sb strings.Builder
	sb.WriteString(`<div class="contact">`)
	for _, line := range []string{b.Address, b.Hours, b.Phone, b.Email} {
		if line != "" {
			fmt.Fprintf(&sb, `<p>%s</p>`, html.EscapeString(line))
		}
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func endCardCSS() string {
	return `
.card { width: 1080px; height: 1920px; display: flex; flex-direction: column; align-items: center; justify-content: center; background: #000; color: #fff; font-family: 'Helvetica Neue', Arial, sans-serif; }
.cta { font-size: 64px; font-weight: 700; text-align: center; padding: 0 60px; animation: pulse 1.6s ease-in-out infinite; }
@keyframes pulse { 0%, 100% { transform: scale(1); } 50% { transform: scale(1.06); } }
.qr { margin: 80px 0; }
.qr img { width: 560px; height: 560px; border-radius: 24px; background: #fff; padding: 24px; }
.qr.placeholder { width: 560px; height: 560px; display: flex; align-items: center; justify-content: center; border: 4px dashed #555; border-radius: 24px; font-size: 52px; color: #aaa; }
.bottom { display: flex; align-items: flex-end; justify-content: space-between; width: 900px; }
.contact { font-size: 34px; line-height: 1.5; color: #ccc; }
.contact p { margin: 0; }
.logo { width: 160px; height: 160px; object-fit: contain; }
.badge { font-size: 38px; font-weight: 600; padding: 16px 28px; border: 2px solid #fff; border-radius: 48px; }
`
}
