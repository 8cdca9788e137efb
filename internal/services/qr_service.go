package services

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QROptions configures a generated share code.
type QROptions struct {
	Content string
	Size    int    // pixels, square
	FgColor string // hex, e.g. "#000000"
	BgColor string // hex, e.g. "#FFFFFF"
}

// GenerateQRCode renders a QR code PNG for a content URL.
func GenerateQRCode(opts QROptions) ([]byte, error) {
	qr, err := qrcode.New(opts.Content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	qr.ForegroundColor = parseHexColor(opts.FgColor, color.Black)
	qr.BackgroundColor = parseHexColor(opts.BgColor, color.White)

	size := opts.Size
	if size <= 0 {
		size = 256
	}
	img := qr.Image(size)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseHexColor(s string, defaultColor color.Color) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return defaultColor
	}

	hexToByte := func(c byte) byte {
		switch {
		case c >= '0' && c <= '9':
			return c - '0'
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10
		}
		return 0
	}

	r := (hexToByte(s[0]) << 4) + hexToByte(s[1])
	g := (hexToByte(s[2]) << 4) + hexToByte(s[3])
	b := (hexToByte(s[4]) << 4) + hexToByte(s[5])

	return color.RGBA{R: r, G: g, B: b, A: 255}
}
