// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	DefaultEndpoint = "http://localhost:9411/api/v2/spans"

	exportTimeout = 10 * time.Second
	// Longer than [exportTimeout] so in-flight exports can finish.
	shutdownTimeout = 15 * time.Second
)

var ErrInvalidSampleRate = errors.New("sample rate must be in [0, 1]")

// Config controls span export. Spans are discarded when Enabled is false.
type Config struct {
	Enabled    bool    `json:"enabled"`
	SampleRate float64 `json:"sampleRate"`
	Endpoint   string  `json:"endpoint"`

	AppName string `json:"appName"`
	Version string `json:"version"`
}

func (c Config) Verify() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, c.SampleRate)
	}
	return nil
}

type exporter struct {
	oteltrace.Tracer

	tp *sdktrace.TracerProvider
}

func (e *exporter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.tp.Shutdown(ctx)
}

// New returns a tracer exporting to the zipkin collector at
// [Config.Endpoint], or a tracer that records nothing when tracing is
// disabled.
func New(c Config) (trace.Tracer, error) {
	if !c.Enabled {
		return &noOpTracer{
			t: oteltrace.NewNoopTracerProvider().Tracer(c.AppName),
		}, nil
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	endpoint := c.Endpoint
	if len(endpoint) == 0 {
		endpoint = DefaultEndpoint
	}
	exp, err := zipkin.New(endpoint)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("version", c.Version),
				semconv.ServiceNameKey.String(c.AppName),
			),
		),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(c.SampleRate)),
	)
	return &exporter{
		Tracer: tp.Tracer(c.AppName),
		tp:     tp,
	}, nil
}
