package opener

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"zaireen_import/internal/ports"
)

// CompoundOpener routes a staging reference to the opener that can serve it:
// https URLs, s3 URLs, or plain local paths. Local paths are the common case
// for images already sitting next to the service; remote schemes cover scans
// pushed to object storage by field devices.
type CompoundOpener struct {
	HTTP  *HTTPOpener
	S3    *S3Opener
	Local *LocalOpener
}

func NewCompoundOpener(httpOp *HTTPOpener, s3Op *S3Opener, localOp *LocalOpener) *CompoundOpener {
	return &CompoundOpener{HTTP: httpOp, S3: s3Op, Local: localOp}
}

func (c *CompoundOpener) Open(ctx context.Context, filePath string) (io.ReadCloser, ports.Meta, error) {
	fp := strings.TrimSpace(filePath)

	switch {
	case strings.HasPrefix(fp, "http://") || strings.HasPrefix(fp, "https://"):
		if c.HTTP == nil {
			return nil, ports.Meta{}, errors.New("http opener not configured")
		}
		return c.HTTP.Open(ctx, fp)

	case strings.HasPrefix(fp, "s3://"):
		if c.S3 == nil {
			return nil, ports.Meta{}, errors.New("s3 opener not configured")
		}
		bkt, key, err := parseS3URL(fp)
		if err != nil {
			return nil, ports.Meta{}, err
		}
		return c.S3.Open(ctx, bkt, key)

	default:
		if c.Local == nil {
			return nil, ports.Meta{}, errors.New("local opener not configured")
		}
		return c.Local.Open(ctx, fp)
	}
}

func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", errors.New("scheme must be s3")
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	key = path.Clean(key)
	if bucket == "" || key == "" || key == "." || key == "/" {
		return "", "", errors.New("empty bucket or key")
	}
	return bucket, key, nil
}
