package glyph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/soypat/miniature/internal/errs"
	"github.com/soypat/miniature/internal/monitoring"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/singleflight"
)

// GoRegular is the source name of the embedded Go Regular font.
const GoRegular = "goregular"

// maxFontSize limits the size of fonts fetched over HTTP.
const maxFontSize = 32 << 20

// Cache loads fonts once per source. A source is GoRegular, an http(s)
// URL or a file path. Concurrent loads of the same source share a single
// fetch and failed loads are not cached.
type Cache struct {
	// Client fetches http sources. http.DefaultClient is used when nil.
	Client *http.Client
	// Parse builds the Outliner from font file contents. Defaults to ParseSFNT.
	Parse func([]byte) (Outliner, error)

	group singleflight.Group
	mu    sync.Mutex
	fonts map[string]Outliner
}

// Load returns the outliner for src. Errors wrap errs.ErrCapabilityInit.
func (c *Cache) Load(ctx context.Context, src string) (Outliner, error) {
	if o, ok := c.cached(src); ok {
		return o, nil
	}
	v, err, _ := c.group.Do(src, func() (interface{}, error) {
		if o, ok := c.cached(src); ok {
			return o, nil
		}
		b, err := c.fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		parse := c.Parse
		if parse == nil {
			parse = func(b []byte) (Outliner, error) { return ParseSFNT(b) }
		}
		o, err := parse(b)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.fonts == nil {
			c.fonts = make(map[string]Outliner)
		}
		c.fonts[src] = o
		c.mu.Unlock()
		monitoring.Logf("glyph: loaded font %q (%d bytes)", src, len(b))
		return o, nil
	})
	if err != nil {
		monitoring.Logf("glyph: loading font %q: %v", src, err)
		return nil, fmt.Errorf("font %q: %w: %v", src, errs.ErrCapabilityInit, err)
	}
	return v.(Outliner), nil
}

func (c *Cache) cached(src string) (Outliner, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.fonts[src]
	return o, ok
}

func (c *Cache) fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case src == GoRegular:
		return goregular.TTF, nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		client := c.Client
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching font: %s", resp.Status)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxFontSize))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(src)
}
