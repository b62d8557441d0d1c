// Package convert ties document parsing, caching and output encoding together.
package convert

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/volttools/urdfconv/internal/models"
	"github.com/volttools/urdfconv/internal/output"
	"github.com/volttools/urdfconv/internal/parser"
)

// Options configures a Converter.
type Options struct {
	// CacheSize is the number of converted documents kept in memory,
	// keyed by content hash. Zero disables caching.
	CacheSize int
	Encode    output.Options

	// Registerer receives the conversion metrics; nil leaves them unregistered.
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}

// Converter converts robot descriptions. It is safe for concurrent use.
// Robots returned by Convert may be shared through the cache and must not be modified.
type Converter struct {
	cache   *lru.Cache[string, *models.Robot]
	metrics *Metrics
	encode  output.Options
	logger  *slog.Logger
}

// New creates a Converter.
func New(opts Options) (*Converter, error) {
	c := &Converter{
		metrics: NewMetrics(opts.Registerer),
		encode:  opts.Encode,
		logger:  opts.Logger,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, *models.Robot](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating conversion cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Convert parses and maps a complete robot description document.
func (c *Converter) Convert(data []byte) (*models.Robot, error) {
	var key string
	if c.cache != nil {
		sum := sha256.Sum256(data)
		key = hex.EncodeToString(sum[:])
		if robot, ok := c.cache.Get(key); ok {
			c.metrics.cacheHits.Inc()
			c.metrics.conversions.WithLabelValues("ok").Inc()
			return robot, nil
		}
	}

	start := time.Now()
	robot, err := parser.ParseURDF(bytes.NewReader(data))
	c.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.conversions.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}
	c.metrics.conversions.WithLabelValues("ok").Inc()

	if c.cache != nil {
		c.cache.Add(key, robot)
	}
	return robot, nil
}

// ConvertReader reads a whole document from r and converts it.
func (c *Converter) ConvertReader(r io.Reader) (*models.Robot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return c.Convert(data)
}

// ConvertFile converts the document at in and writes it to out in format f.
// An empty out derives the destination from in. It returns the written path.
func (c *Converter) ConvertFile(in, out string, f output.Format) (string, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		c.metrics.conversions.WithLabelValues("io_error").Inc()
		return "", fmt.Errorf("reading %s: %w", in, err)
	}

	robot, err := c.Convert(data)
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", in, err)
	}

	if out == "" {
		out = output.DeriveOutputPath(in, f)
	}
	if err := output.WriteFile(out, robot, f, c.encode); err != nil {
		c.metrics.conversions.WithLabelValues("io_error").Inc()
		return "", fmt.Errorf("writing %s: %w", out, err)
	}

	c.logger.Debug("converted robot description",
		"input", in,
		"output", out,
		"robot", robot.Name,
		"links", len(robot.Links),
		"joints", len(robot.Joints))
	return out, nil
}

// Encode serializes robot with the converter's encoding options.
func (c *Converter) Encode(w io.Writer, robot *models.Robot, f output.Format) error {
	return output.Encode(w, robot, f, c.encode)
}

func resultLabel(err error) string {
	if kind := parser.KindName(err); kind != "" {
		return kind
	}
	return "error"
}
