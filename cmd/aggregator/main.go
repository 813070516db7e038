package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/aggregator"
	"main/internal/bus"
	"main/internal/codec"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/relay"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	policy := flag.String("policy", "", "Aggregation policy: WeightedAverage|Median (overrides config)")
	signalSocket := flag.String("signal-socket", "", "Signal input socket (overrides config)")
	targetSocket := flag.String("target-socket", "", "Target output socket (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listen address (overrides config)")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *policy != "" {
		cfg.Aggregator.Policy = *policy
	}
	if *signalSocket != "" {
		cfg.Aggregator.SignalSocket = *signalSocket
	}
	if *targetSocket != "" {
		cfg.Aggregator.TargetSocket = *targetSocket
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := obs.NewMetrics()
	var prom *obs.Recorder
	if cfg.MetricsAddr != "" {
		prom = obs.NewRecorder("aggregator")
		go obs.Serve(cfg.MetricsAddr)
	}

	agg := aggregator.New(aggregator.NewPolicy(cfg.Aggregator.Policy), cfg.Aggregator.MaxSignalsPerSymbol)
	publisher := relay.NewPublisher(cfg.Aggregator.TargetSocket)

	server, err := relay.NewServer(cfg.Aggregator.SignalSocket)
	if err != nil {
		log.Fatalf("signal socket init failed: %v", err)
	}
	started, err := server.Start(func(e bus.Event) {
		if e.Kind != codec.KindSignal {
			return
		}
		sig, ok := codec.DecodeSignal(e.Payload)
		if !ok {
			return
		}
		agg.AddSignal(sig.Clamped())
		metrics.Inc(obs.CounterSignalsEmitted)
		prom.IncCounter(obs.CounterSignalsEmitted)
	})
	if err != nil {
		log.Fatalf("signal socket listen failed: %v", err)
	}
	if !started {
		log.Fatalf("signal socket already running")
	}

	flushEvery := time.Duration(cfg.Aggregator.FlushSeconds) * time.Second
	if flushEvery <= 0 {
		flushEvery = time.Second
	}
	expiry := time.Duration(cfg.Aggregator.ExpirySeconds) * time.Second
	if expiry <= 0 {
		expiry = aggregator.SignalExpiry
	}

	logs.Infof("signal aggregator started with %s policy", agg.Policy().Name())

	flushTicker := time.NewTicker(flushEvery)
	defer flushTicker.Stop()
	janitorTicker := time.NewTicker(expiry / 4)
	defer janitorTicker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-sys.Shutdown():
			break loop
		case <-janitorTicker.C:
			agg.ClearOlderThan(time.Now().Add(-expiry).UnixNano())
		case <-flushTicker.C:
			portfolio := agg.TargetPortfolio()
			for _, target := range portfolio {
				if err := publisher.Publish(bus.Event{
					Kind:    codec.KindTarget,
					Payload: codec.EncodeTarget(nil, target),
				}); err != nil {
					continue
				}
				metrics.Inc(obs.CounterTargetsPublished)
				prom.IncCounter(obs.CounterTargetsPublished)
			}
			if len(portfolio) > 0 {
				logs.Infof("published %d targets, buffered=%d", len(portfolio), agg.BufferedSignals())
			}
		}
	}

	server.Stop()
	publisher.Close()
	logs.Info("signal aggregator stopped")
}
