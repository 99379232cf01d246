package mrz

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// mrzWhitelist restricts recognition to the MRZ alphabet, which sharply cuts
// down confusions between fillers and punctuation.
const mrzWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789<"

// TesseractExtractor reads MRZ fields from passport images with a
// Tesseract-backed OCR pass. A fresh client is created per call; the
// underlying C API is not safe for concurrent reuse.
type TesseractExtractor struct {
	clientFactory func() *gosseract.Client
}

func NewTesseractExtractor() *TesseractExtractor {
	return &TesseractExtractor{clientFactory: gosseract.NewClient}
}

// Extract OCRs the image at imagePath and decodes its MRZ band. When the
// first pass finds no band the image is retried rotated 180 degrees, since
// flatbed passport scans frequently arrive upside down. Returns ErrNotFound
// when neither orientation yields a decodable band; the image is never
// modified on disk.
func (e *TesseractExtractor) Extract(ctx context.Context, imagePath string) (*Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	fields, err := e.recognize(data)
	if err == nil {
		return fields, nil
	}
	if err != ErrNotFound {
		log.Printf("[MRZ][WARN] ocr pass failed: %v", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flipped, ferr := rotate180(data)
	if ferr != nil {
		log.Printf("[MRZ][WARN] rotate for retry: %v", ferr)
		return nil, ErrNotFound
	}
	fields, err = e.recognize(flipped)
	if err != nil {
		return nil, ErrNotFound
	}
	return fields, nil
}

func (e *TesseractExtractor) recognize(imgData []byte) (*Fields, error) {
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(imgData); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage("eng"); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := c.SetWhitelist(mrzWhitelist); err != nil {
		return nil, fmt.Errorf("set whitelist: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	return Parse(text)
}

func rotate180(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(b.Max.X-1-x, b.Max.Y-1-y, img.At(x, y))
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}
