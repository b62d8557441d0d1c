package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/volttools/urdfconv/internal/models"
)

// extractOrigin converts an optional <origin> element. A nil element yields a nil
// origin; a present element defaults missing xyz/rpy to zeros.
func extractOrigin(el *Element, path string) (*models.Origin, error) {
	if el == nil {
		return nil, nil
	}

	origin := models.ZeroOrigin()
	var err error
	if raw, ok := el.Attr("xyz"); ok {
		if origin.XYZ, err = parseTriple(el, path, "xyz", raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := el.Attr("rpy"); ok {
		if origin.RPY, err = parseTriple(el, path, "rpy", raw); err != nil {
			return nil, err
		}
	}
	return origin, nil
}

// parseTriple parses exactly three whitespace-separated numbers.
func parseTriple(el *Element, path, attr, raw string) (models.Vec3, error) {
	var v models.Vec3
	fields := strings.Fields(raw)
	if len(fields) != len(v) {
		return v, malformedNumber(el, path, attr, raw,
			fmt.Errorf("expected %d values, got %d", len(v), len(fields)))
	}
	for i, f := range fields {
		n, err := parseNumber(f)
		if err != nil {
			return v, malformedNumber(el, path, attr, raw, err)
		}
		v[i] = n
	}
	return v, nil
}

// requireFloat reads a required scalar numeric attribute.
func requireFloat(el *Element, path, attr string) (float64, error) {
	raw, ok := el.Attr(attr)
	if !ok {
		return 0, missingAttribute(el, path, attr)
	}
	n, err := parseNumber(strings.TrimSpace(raw))
	if err != nil {
		return 0, malformedNumber(el, path, attr, raw, err)
	}
	return n, nil
}

// parseNumber accepts any finite float literal. NaN and infinities are rejected
// because they have no JSON representation.
func parseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return n, nil
}
