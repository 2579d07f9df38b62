/*
Package observability turns game lifecycle hooks into logs and Prometheus metrics.

Both helpers return domain.LifecycleHooks, so they can be merged and handed to
a game or host:

	metrics, _ := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.LogHooks(logger).Merge(metrics.Hooks())
*/
package observability
