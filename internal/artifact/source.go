package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/i474232898/weather-prediction/internal/common"
	"github.com/sony/gobreaker"
)

var (
	// ErrArtifactNotFound is returned when the configured artifact does not
	// exist (missing file or HTTP 404).
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrCorruptArtifact is returned when the payload cannot be decoded.
	ErrCorruptArtifact = errors.New("corrupt model artifact")
)

// Source yields the raw bytes of a model package.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// NewSource picks an HTTP source for http(s) locations and a file source
// for everything else.
func NewSource(location string, client *http.Client) Source {
	if common.HasAnyPrefix(location, "http://", "https://") {
		return NewHTTPSource(client, location)
	}
	return FileSource{Path: location}
}

// FileSource reads the package from local disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.Path)
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return data, nil
}

// HTTPSource downloads the package from a model registry, guarded by a
// circuit breaker and exponential backoff.
type HTTPSource struct {
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewHTTPSource(client *http.Client, url string) *HTTPSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "model-registry",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &HTTPSource{
		url: url,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (s *HTTPSource) Name() string { return s.url }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, s.url, nil)
	}

	data, err := fetchWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.url)
		}
		return nil, err
	}
	return data, nil
}
