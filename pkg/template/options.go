package template

import (
	"net/http"
	"time"

	"github.com/aescanero/dago-template/pkg/metrics"
	"github.com/aescanero/dago-template/pkg/tree"
	"go.uber.org/zap"
)

// DefaultFetchTimeout is the timeout of the default HTTP client used by FromURL.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxTemplateBytes caps the size of a fetched template (10MB).
const DefaultMaxTemplateBytes = 10 * 1024 * 1024

// Option configures a Template at construction time
type Option func(*options)

type options struct {
	logger     *zap.Logger
	metrics    *metrics.Recorder
	store      tree.Store
	httpClient *http.Client
	maxBytes   int64
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:     zap.NewNop(),
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
		maxBytes:   DefaultMaxTemplateBytes,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for directive and fetch diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records renders and fetches
func WithMetrics(rec *metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = rec
	}
}

// WithStore sets the store used to resolve include="<id>" directives.
// By default a template resolves includes against its own source tree.
func WithStore(store tree.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithHTTPClient sets the client used by FromURL and FetchAll
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithMaxBytes caps the size of a fetched template
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBytes = n
		}
	}
}
