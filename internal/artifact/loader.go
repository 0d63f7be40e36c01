package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/i474232898/weather-prediction/internal/estimator"
	"github.com/i474232898/weather-prediction/internal/weather"
)

// Loader fetches a model package from its source and decodes it into a
// weather.RawArtifact. It satisfies weather.Loader.
type Loader struct {
	source Source
}

// NewLoader creates a Loader reading from src.
func NewLoader(src Source) *Loader {
	return &Loader{source: src}
}

// Load fetches, decompresses and decodes the package.
func (l *Loader) Load(ctx context.Context) (weather.RawArtifact, error) {
	data, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	payload, format, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArtifact, l.source.Name(), err)
	}
	slog.Debug("model artifact fetched", "source", l.source.Name(), "format", format, "bytes", len(data))

	raw, err := Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.source.Name(), err)
	}
	return raw, nil
}

// decompress sniffs the payload and undoes gzip or zstd compression. Other
// payloads are returned unchanged.
func decompress(data []byte) ([]byte, string, error) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("application/gzip"):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, mt.String(), err
		}
		defer zr.Close()
		out, err := io.ReadAll(io.LimitReader(zr, maxArtifactBytes+1))
		if err != nil {
			return nil, mt.String(), err
		}
		if len(out) > maxArtifactBytes {
			return nil, mt.String(), errTooLarge
		}
		return out, mt.String(), nil
	case mt.Is("application/zstd"):
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxArtifactBytes))
		if err != nil {
			return nil, mt.String(), err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, mt.String(), err
		}
		return out, mt.String(), nil
	default:
		return data, mt.String(), nil
	}
}

// Decode parses a JSON model package. Estimator entries are decoded into
// estimator values, nested bundles into RawArtifact, everything else into
// plain JSON values.
func Decode(data []byte) (weather.RawArtifact, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: package is not an object", ErrCorruptArtifact)
	}
	return decodeFields(top)
}

func decodeFields(fields map[string]json.RawMessage) (weather.RawArtifact, error) {
	raw := make(weather.RawArtifact, len(fields))
	for key, msg := range fields {
		v, err := decodeField(key, msg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArtifact, key, err)
		}
		raw[key] = v
	}
	return raw, nil
}

func decodeField(key string, msg json.RawMessage) (any, error) {
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return nil, nil
	}

	switch {
	case key == "regressor":
		return estimator.DecodeRegressor(msg)
	case key == "classifier":
		return estimator.DecodeClassifier(msg)
	case strings.HasPrefix(key, "label_encoder"):
		return estimator.DecodeLabelEncoder(msg)
	case key == "hourly" || key == "daily":
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(msg, &nested); err != nil {
			// Not a bundle; keep the plain value and let normalization decide.
			return decodePlain(msg)
		}
		return decodeFields(nested)
	default:
		return decodePlain(msg)
	}
}

func decodePlain(msg json.RawMessage) (any, error) {
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil, err
	}
	return v, nil
}
