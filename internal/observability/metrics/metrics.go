package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	doctorSuspensions  metric.Int64Counter
	paymentRollovers   metric.Int64Counter
	commissionAccruals metric.Int64Counter
	paymentApprovals   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "medicita"
	}
	meter := provider.Meter(name)

	doctorSuspensions, err := meter.Int64Counter("medicita_doctor_suspensions_total")
	if err != nil {
		return nil, err
	}
	paymentRollovers, err := meter.Int64Counter("medicita_payment_rollovers_total")
	if err != nil {
		return nil, err
	}
	commissionAccruals, err := meter.Int64Counter("medicita_commission_accruals_total")
	if err != nil {
		return nil, err
	}
	paymentApprovals, err := meter.Int64Counter("medicita_payment_approvals_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		doctorSuspensions:  doctorSuspensions,
		paymentRollovers:   paymentRollovers,
		commissionAccruals: commissionAccruals,
		paymentApprovals:   paymentApprovals,
	}, nil
}

// RecordDoctorSuspension increments suspended doctor counts.
func (m *Metrics) RecordDoctorSuspension(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.doctorSuspensions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPaymentRollover increments advanced payment date counts.
func (m *Metrics) RecordPaymentRollover(ctx context.Context) {
	if m == nil {
		return
	}
	m.paymentRollovers.Add(ctx, 1)
}

// RecordCommissionAccrual increments created seller payment counts.
func (m *Metrics) RecordCommissionAccrual(ctx context.Context, city string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("city", strings.TrimSpace(city)))
	m.commissionAccruals.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPaymentApproval increments approved doctor payment counts.
func (m *Metrics) RecordPaymentApproval(ctx context.Context, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("status", strings.TrimSpace(status)))
	m.paymentApprovals.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"job":         {},
	"city":        {},
	"status":      {},
	"status_code": {},
	"endpoint":    {},
	"reason":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
