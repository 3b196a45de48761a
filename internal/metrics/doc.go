// Package metrics records run metrics on a private Prometheus registry and
// optionally pushes them to a Pushgateway when the run ends. A batch job
// exits before any scraper would see it, so push is the only delivery path.
package metrics
