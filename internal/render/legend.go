package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
	"strconv"

	"github.com/retailgeo/densmap/internal/config"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// legendSamples is the horizontal resolution of the gradient strip before
// scaling to the display size.
const legendSamples = 256

// Legend renders the heat gradient as a horizontal WebP strip and returns it
// as a data URI suitable for an <img> src.
func Legend(stops []config.GradientStop, width, height int) (string, error) {
	if len(stops) == 0 {
		return "", fmt.Errorf("empty gradient")
	}

	sorted := make([]config.GradientStop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })

	strip := image.NewNRGBA(image.Rect(0, 0, legendSamples, 1))
	for x := 0; x < legendSamples; x++ {
		t := float64(x) / float64(legendSamples-1)
		c, err := gradientAt(sorted, t)
		if err != nil {
			return "", err
		}
		strip.SetNRGBA(x, 0, c)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), strip, strip.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		return "", err
	}

	return "data:image/webp;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// gradientAt linearly interpolates the stop colors at position t in [0, 1].
func gradientAt(sorted []config.GradientStop, t float64) (color.NRGBA, error) {
	first, last := sorted[0], sorted[len(sorted)-1]

	if t <= first.At {
		return parseColor(first.Color)
	}
	if t >= last.At {
		return parseColor(last.Color)
	}

	for i := 1; i < len(sorted); i++ {
		if t > sorted[i].At {
			continue
		}

		lo, hi := sorted[i-1], sorted[i]
		a, err := parseColor(lo.Color)
		if err != nil {
			return color.NRGBA{}, err
		}
		b, err := parseColor(hi.Color)
		if err != nil {
			return color.NRGBA{}, err
		}

		span := hi.At - lo.At
		if span <= 0 {
			return b, nil
		}
		f := (t - lo.At) / span

		return color.NRGBA{
			R: lerp(a.R, b.R, f),
			G: lerp(a.G, b.G, f),
			B: lerp(a.B, b.B, f),
			A: 255,
		}, nil
	}

	return parseColor(last.Color)
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}

// namedColors covers the CSS color names used by the default gradient.
var namedColors = map[string]color.NRGBA{
	"blue":   {0x00, 0x00, 0xFF, 0xFF},
	"lime":   {0x00, 0xFF, 0x00, 0xFF},
	"green":  {0x00, 0x80, 0x00, 0xFF},
	"yellow": {0xFF, 0xFF, 0x00, 0xFF},
	"orange": {0xFF, 0xA5, 0x00, 0xFF},
	"red":    {0xFF, 0x00, 0x00, 0xFF},
	"white":  {0xFF, 0xFF, 0xFF, 0xFF},
	"black":  {0x00, 0x00, 0x00, 0xFF},
}

// parseColor accepts a CSS color name or a #RRGGBB hex value.
func parseColor(s string) (color.NRGBA, error) {
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	if len(s) == 7 && s[0] == '#' {
		r, err1 := strconv.ParseUint(s[1:3], 16, 8)
		g, err2 := strconv.ParseUint(s[3:5], 16, 8)
		b, err3 := strconv.ParseUint(s[5:7], 16, 8)
		if err1 == nil && err2 == nil && err3 == nil {
			return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xFF}, nil
		}
	}

	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}
