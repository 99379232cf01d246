package opener

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"zaireen_import/internal/ports"
)

type HTTPOpener struct{ Client *http.Client }

func NewHTTPOpener(cli *http.Client) *HTTPOpener {
	if cli == nil {
		cli = &http.Client{}
	}
	return &HTTPOpener{Client: cli}
}

func (h *HTTPOpener) Open(ctx context.Context, url string) (io.ReadCloser, ports.Meta, error) {
	log.Printf("[OPENER][HTTP][START] url=%q", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ports.Meta{}, err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		log.Printf("[OPENER][HTTP][ERR] do request: %v", err)
		return nil, ports.Meta{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[OPENER][HTTP][ERR] status=%d content_type=%q", resp.StatusCode, resp.Header.Get("Content-Type"))
		resp.Body.Close()
		return nil, ports.Meta{}, fmt.Errorf("http status %d", resp.StatusCode)
	}
	size := resp.ContentLength
	if size < 0 {
		size = -1
	}
	log.Printf("[OPENER][HTTP][OK] content_type=%q size=%d", resp.Header.Get("Content-Type"), size)
	return resp.Body, ports.Meta{
		Source:      "https",
		ContentType: resp.Header.Get("Content-Type"),
		Size:        size,
	}, nil
}
