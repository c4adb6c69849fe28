package images

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"asinlookup/internal/observability"
)

const maxListingImages = 4

var downloadClient = &http.Client{Timeout: 10 * time.Second}

// Processor composites the badge overlay onto the primary product image,
// caches the result on disk and serves it from the image host or a local
// URL. Every failure degrades to the original URL for that slot.
type Processor struct {
	ProcessedDir string
	OverlayPath  string
	Uploader     Uploader // nil disables remote upload
	client       *http.Client
}

func NewProcessor(processedDir, overlayDir string, uploader Uploader) *Processor {
	return &Processor{
		ProcessedDir: processedDir,
		OverlayPath:  filepath.Join(overlayDir, "badges-overlay.png"),
		Uploader:     uploader,
		client:       downloadClient,
	}
}

// Process returns listing-ready URLs. Only the first image gets the
// overlay treatment; the rest pass through, capped at four total.
func (p *Processor) Process(ctx context.Context, urls []string, asin, baseURL string) []string {
	processed := []string{}
	if len(urls) == 0 {
		return processed
	}

	processed = append(processed, p.processWithOverlay(ctx, urls[0], asin, baseURL))
	for i := 1; i < len(urls) && i < maxListingImages; i++ {
		processed = append(processed, urls[i])
	}
	return processed
}

func (p *Processor) processWithOverlay(ctx context.Context, imageURL, asin, baseURL string) string {
	name := artifactName(imageURL, asin)
	outPath := filepath.Join(p.ProcessedDir, name)

	if _, err := os.Stat(outPath); err != nil {
		buf, err := p.download(ctx, imageURL)
		if err != nil {
			log.Printf("images: download failed for %s: %v", asin, err)
			return imageURL
		}

		if _, err := os.Stat(p.OverlayPath); err != nil {
			log.Printf("images: overlay missing at %s", p.OverlayPath)
			return imageURL
		}

		if err := p.composite(buf, outPath); err != nil {
			log.Printf("images: composite failed for %s: %v", asin, err)
			return imageURL
		}
		observability.ImagesProcessed.Inc()
	}

	if p.Uploader != nil {
		hosted, err := p.Uploader.Upload(ctx, outPath, name)
		if err == nil {
			return hosted
		}
		log.Printf("images: upload failed for %s: %v", name, err)
		observability.UploadFailures.Inc()
	}

	return baseURL + "/processed/" + name
}

func (p *Processor) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (p *Processor) composite(buf []byte, outPath string) error {
	src, err := imaging.Decode(bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to decode source image: %w", err)
	}

	overlay, err := imaging.Open(p.OverlayPath)
	if err != nil {
		return fmt.Errorf("failed to open overlay: %w", err)
	}

	// Overlay spans the full image width, anchored at the top.
	resized := imaging.Resize(overlay, src.Bounds().Dx(), 0, imaging.Lanczos)
	out := imaging.Overlay(src, resized, image.Pt(0, 0), 1.0)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	// Write via a temp file so a concurrent run for the same artifact never
	// observes a half-written JPEG.
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*.jpg")
	if err != nil {
		return err
	}
	if err := imaging.Encode(tmp, out, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), outPath)
}

// artifactName derives a stable file name from the source URL and ASIN so
// repeated runs reuse the cached artifact.
func artifactName(imageURL, asin string) string {
	sum := md5.Sum([]byte(imageURL))
	return fmt.Sprintf("%s-%s.jpg", asin, hex.EncodeToString(sum[:])[:8])
}
