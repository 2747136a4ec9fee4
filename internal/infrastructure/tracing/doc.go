/*
Package tracing provides request-scoped tracing for debugging gesture flows.

# Overview

This package implements lightweight tracing to follow a gesture from the
renderer through the shell and back. It follows OpenTelemetry concepts but
with a minimal implementation tailored to a single-process service.

# Usage

	// Create tracer
	tracer := tracing.New("shelld", logger)

	// HTTP middleware
	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

	span.SetTag("key", "value")

# Trace Format

Traces use standard HTTP headers for propagation:
- X-Trace-ID: Unique identifier for entire request flow
- X-Span-ID: Identifier for current operation
*/
package tracing
