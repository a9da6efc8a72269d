package template

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FromURL fetches markup over HTTP GET and creates a template from it. The
// external include base URL is set to the fetched URL up to its last "/".
//
// A non-2xx response or a transport failure yields a *TransportError.
func FromURL(ctx context.Context, url string, opts ...Option) (*Template, error) {
	o := newOptions(opts)

	markup, err := fetch(ctx, o, url)
	o.metrics.FetchCompleted(err == nil)
	if err != nil {
		o.logger.Warn("template fetch failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	t, err := FromMarkup(markup, opts...)
	if err != nil {
		return nil, err
	}
	if i := strings.LastIndex(url, "/"); i >= 0 {
		t.externalIncludeURL = url[:i]
	}

	o.logger.Debug("template fetched",
		zap.String("url", url),
		zap.Int("bytes", len(markup)),
	)
	return t, nil
}

// FetchAll fetches several templates concurrently. It fails with the first
// error and cancels the remaining requests. Results keep the order of urls.
func FetchAll(ctx context.Context, urls []string, opts ...Option) ([]*Template, error) {
	templates := make([]*Template, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() error {
			t, err := FromURL(ctx, url, opts...)
			if err != nil {
				return err
			}
			templates[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return templates, nil
}

func fetch(ctx context.Context, o *options, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", NewTransportError(url, 0, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := http.StatusText(resp.StatusCode)
		if status == "" {
			status = resp.Status
		}
		return "", NewTransportError(url, resp.StatusCode, status, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, o.maxBytes+1))
	if err != nil {
		return "", NewTransportError(url, resp.StatusCode, err.Error(), err)
	}
	if int64(len(body)) > o.maxBytes {
		return "", fmt.Errorf("template at %s exceeds %d bytes", url, o.maxBytes)
	}
	return string(body), nil
}
