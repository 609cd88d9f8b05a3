// Package qrimage renders QR codes as PNG images.
package qrimage

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 300
	MinSize     = 64
	MaxSize     = 1024

	DefaultForeground = "#000000"
	DefaultBackground = "#ffffff"
)

var ErrEmptyContent = errors.New("qr content is empty")

type Options struct {
	Size       int
	Foreground string
	Background string
}

// ClampSize maps size into [MinSize, MaxSize]; zero selects DefaultSize.
func ClampSize(size int) int {
	switch {
	case size == 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	}
	return size
}

// Render encodes content with medium error correction.
func Render(content string, opts Options) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	fg, err := ParseHexColor(orDefault(opts.Foreground, DefaultForeground))
	if err != nil {
		return nil, err
	}
	bg, err := ParseHexColor(orDefault(opts.Background, DefaultBackground))
	if err != nil {
		return nil, err
	}

	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.ForegroundColor = fg
	q.BackgroundColor = bg

	return q.PNG(ClampSize(opts.Size))
}

// ParseHexColor parses #rgb and #rrggbb colours.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
