/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics for the shell service:
HTTP request metrics, panel split/merge counters, layout classifier
timings, the coverage-invariant violation counter, session counters, and
WebSocket connection gauges.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Time layout computations
	timer := monitoring.NewTimer(metrics)
	// ... run the classifier ...
	timer.Stop(string(model.Tag))

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
