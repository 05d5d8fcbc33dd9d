// Package mapimg composites rendered map tiles from the live-map web server
// into a single image around a world coordinate.
package mapimg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
)

const (
	tileSize = 512
	// Border width contributed by each tile to the surrounding frame
	borderPerTile = 32
)

// Generator fetches map tiles and composites them over a background frame
type Generator struct {
	httpClient *http.Client
	baseURL    string
	assetPath  string
	logger     *logrus.Entry
}

// NewGenerator creates a map generator. baseURL is the tile root of the
// live-map server; assetPath points at the background frame image
func NewGenerator(baseURL, assetPath string, logger *logrus.Entry) *Generator {
	return &Generator{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		assetPath:  assetPath,
		logger:     logger,
	}
}

// Generate renders the square of (2*radius+1)^2 tiles around the given world
// coordinate and returns it PNG-encoded. Tiles the map server has not
// rendered are skipped
func (g *Generator) Generate(ctx context.Context, world string, radius, x, z int) ([]byte, error) {
	count := radius*2 + 1
	offset := borderPerTile * count
	size := tileSize*count + offset*2

	renderer := "basic"
	if world == "world" {
		renderer = "vanilla"
	}

	// Block coordinates to region coordinates: 16 blocks per chunk, 32
	// chunks per region
	regionX := (x >> 4) >> 5
	regionZ := (z >> 4) >> 5

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	if err := g.drawFrame(canvas); err != nil {
		return nil, err
	}

	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			tile, err := g.fetchTile(ctx, world, renderer, regionX+dx, regionZ-dz)
			if err != nil {
				g.logger.WithFields(logrus.Fields{
					"world": world,
					"x":     regionX + dx,
					"z":     regionZ - dz,
					"err":   err.Error(),
				}).Debug("Skipping missing map tile")
				continue
			}
			col := radius + dx
			row := radius - dz
			origin := image.Pt(offset+tileSize*col, offset+tileSize*row)
			bounds := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(tileSize, tileSize))}
			draw.Draw(canvas, bounds, tile, tile.Bounds().Min, draw.Over)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawFrame scales the background frame asset over the whole canvas. Nearest
// neighbor keeps the pixel-art border crisp
func (g *Generator) drawFrame(canvas *image.RGBA) error {
	f, err := os.Open(g.assetPath)
	if err != nil {
		return fmt.Errorf("open map frame asset: %w", err)
	}
	defer f.Close()
	frame, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("decode map frame asset: %w", err)
	}
	xdraw.NearestNeighbor.Scale(canvas, canvas.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
	return nil
}

func (g *Generator) fetchTile(ctx context.Context, world, renderer string, x, z int) (image.Image, error) {
	url := fmt.Sprintf("%s/%s/0/%s/%d_%d.png", g.baseURL, world, renderer, x, z)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}
	return png.Decode(resp.Body)
}
