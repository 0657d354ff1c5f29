package config

// Otel configures tracing. Spans are always created; they are exported only
// when a collector is configured.
type Otel struct {
	ServiceName  string  `env:"OTEL_SERVICE_NAME" envDefault:"productstack"`
	TraceIDRatio float64 `env:"OTEL_TRACE_ID_RATIO" envDefault:"0.1"`

	CollectorURL  string `env:"OTEL_COLLECTOR_URL"`
	CollectorAuth string `env:"OTEL_COLLECTOR_AUTH"`
	Insecure      bool   `env:"OTEL_INSECURE"`

	K8sPodName   string `env:"K8S_POD_NAME"`
	K8sNamespace string `env:"K8S_NAMESPACE"`
}

// ExportEnabled reports whether spans are shipped to a collector.
func (o Otel) ExportEnabled() bool {
	return o.CollectorURL != ""
}
