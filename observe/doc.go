// Package observe wires OpenTelemetry tracing and metrics for the gateway.
//
// Tracing:
//
//	tp, err := observe.InitTracer(ctx, observe.DefaultTracerConfig("busline-gateway"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observe.StartSpan(ctx, "auth.login")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observe.InitMeter(ctx, observe.DefaultMeterConfig("busline-gateway"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observe.NewMetrics(observe.Meter("busline-gateway"))
//	metrics.RecordAuthDecision(ctx, "http", observe.DecisionAllowed)
package observe
