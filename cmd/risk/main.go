package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/bus"
	"main/internal/codec"
	"main/internal/journal"
	"main/internal/model"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/relay"
	"main/internal/risk"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	nav := flag.Float64("nav", 0, "Initial NAV (overrides config)")
	maxADVPct := flag.Float64("max-adv-pct", 0, "Fat finger ADV share (overrides config)")
	maxDrawdownPct := flag.Float64("max-drawdown-pct", 0, "Drawdown limit (overrides config)")
	maxConcentrationPct := flag.Float64("max-concentration-pct", 0, "Concentration limit (overrides config)")
	orderSocket := flag.String("order-socket", "", "Order input socket (overrides config)")
	pgDSN := flag.String("pg-dsn", "", "Postgres DSN for the fill journal (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listen address (overrides config)")
	profileAddr := flag.String("profile-addr", "", "Pyroscope server address (overrides config)")
	statsInterval := flag.Duration("stats-interval", 5*time.Second, "Stats log interval")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *nav > 0 {
		cfg.Risk.InitialNAV = *nav
	}
	if *maxADVPct > 0 {
		cfg.Risk.FatFinger.MaxPct = *maxADVPct
	}
	if *maxDrawdownPct > 0 {
		cfg.Risk.Drawdown.MaxPct = *maxDrawdownPct
	}
	if *maxConcentrationPct > 0 {
		cfg.Risk.Concentration.MaxPct = *maxConcentrationPct
	}
	if *orderSocket != "" {
		cfg.Risk.OrderSocket = *orderSocket
	}
	if *pgDSN != "" {
		cfg.Risk.PostgresDSN = *pgDSN
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *profileAddr != "" {
		cfg.ProfileAddr = *profileAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ProfileAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "quantpipe/risk",
			ServerAddress:   cfg.ProfileAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseObjects,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() { _ = profiler.Stop() }()
	}

	metrics := obs.NewMetrics()
	var prom *obs.Recorder
	if cfg.MetricsAddr != "" {
		prom = obs.NewRecorder("risk")
		go obs.Serve(cfg.MetricsAddr)
	}

	var fills *journal.Store
	if cfg.Risk.PostgresDSN != "" {
		fills, err = journal.Open(cfg.Risk.PostgresDSN)
		if err != nil {
			log.Fatalf("fill journal open failed: %v", err)
		}
	}

	builder := risk.NewBuilder().
		WithInitialNAV(cfg.Risk.InitialNAV).
		WithMetrics(metrics)
	if cfg.Risk.FatFinger.Enabled {
		builder.WithFatFinger(cfg.Risk.FatFinger.MaxPct)
		for symbol, adv := range cfg.Risk.ADV {
			builder.FatFinger().SetADV(symbol, adv)
		}
	}
	if cfg.Risk.Drawdown.Enabled {
		builder.WithDrawdown(cfg.Risk.Drawdown.MaxPct)
	}
	if cfg.Risk.Concentration.Enabled {
		builder.WithConcentration(cfg.Risk.Concentration.MaxPct)
	}
	guardian := builder.Build()

	handleOrder := func(order model.Order) {
		metrics.Inc(obs.CounterOrdersValidated)
		prom.IncCounter(obs.CounterOrdersValidated)

		result := guardian.ValidateOrder(order)
		if !result.Approved {
			metrics.Inc(obs.CounterOrdersRejected)
			prom.IncCounter(obs.CounterOrdersRejected)
			logs.Infof("rejected %s %s %s %.0f @ %.2f [%s]: %s",
				order.OrderID, order.Symbol, order.Side, order.Quantity, order.Price,
				result.ViolationNames(), result.Reason)
			return
		}
		metrics.Inc(obs.CounterOrdersApproved)
		prom.IncCounter(obs.CounterOrdersApproved)

		pos := guardian.UpdatePosition(order.Symbol, order.SignedQuantity(), order.Price)
		if check := builder.Concentration(); check != nil {
			check.UpdatePosition(order.Symbol, pos.Quantity*order.Price)
		}
		if check := builder.Drawdown(); check != nil {
			totalPnL := 0.0
			for _, p := range guardian.Positions().AllPositions() {
				totalPnL += p.RealizedPnL + p.UnrealizedPnL
			}
			check.UpdatePnL(totalPnL)
		}
		if err := fills.Append(order); err != nil {
			logs.Errorf("fill journal append, err: %+v", err)
		}
	}

	server, err := relay.NewServer(cfg.Risk.OrderSocket)
	if err != nil {
		log.Fatalf("order socket init failed: %v", err)
	}
	started, err := server.Start(func(e bus.Event) {
		switch e.Kind {
		case codec.KindOrder:
			if order, ok := codec.DecodeOrder(e.Payload); ok {
				handleOrder(order)
			}
		case codec.KindTick:
			if tick, ok := codec.DecodeTick(e.Payload); ok {
				guardian.UpdateMarketPrice(tick.Symbol, tick.Last)
				prom.SetLastPrice(tick.Symbol, tick.Last)
			}
		}
	})
	if err != nil {
		log.Fatalf("order socket listen failed: %v", err)
	}
	if !started {
		log.Fatalf("order socket already running")
	}

	logs.Infof("risk guardian started: nav=%.0f, listening on %s", cfg.Risk.InitialNAV, server.Path())

	ticker := time.NewTicker(*statsInterval)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-sys.Shutdown():
			break loop
		case <-ticker.C:
			if guardian.ValidationCount() == 0 {
				continue
			}
			numPositions, exposure := guardian.Positions().Stats()
			snap := metrics.Snapshot()
			logs.Infof("stats: validated=%d approved=%d rejected=%d positions=%d exposure=%.0f risk_eval=%+v",
				guardian.ValidationCount(), guardian.ApprovedCount(), guardian.RejectedCount(),
				numPositions, exposure, snap.Latencies[obs.LatencyRiskEval])
		}
	}

	server.Stop()
	logs.Info("risk guardian stopped")
}
