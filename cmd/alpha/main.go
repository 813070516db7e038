package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"

	"main/internal/alpha"
	"main/internal/bus"
	"main/internal/codec"
	"main/internal/model"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/relay"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	workers := flag.Int("workers", 0, "Worker pool size (overrides config)")
	pluginDir := flag.String("plugin-dir", "", "Strategy plugin directory (overrides config)")
	tickSocket := flag.String("tick-socket", "", "Tick input socket (overrides config)")
	signalSocket := flag.String("signal-socket", "", "Signal output socket (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listen address (overrides config)")
	profileAddr := flag.String("profile-addr", "", "Pyroscope server address (overrides config)")
	statsInterval := flag.Duration("stats-interval", 5*time.Second, "Stats log interval")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *workers > 0 {
		cfg.Alpha.Workers = *workers
	}
	if *pluginDir != "" {
		cfg.Alpha.PluginDir = *pluginDir
	}
	if *tickSocket != "" {
		cfg.Alpha.TickSocket = *tickSocket
	}
	if *signalSocket != "" {
		cfg.Alpha.SignalSocket = *signalSocket
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
			ApplicationName: "quantpipe/alpha",
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
		prom = obs.NewRecorder("alpha")
		go obs.Serve(cfg.MetricsAddr)
	}

	engine := alpha.NewEngine(cfg.Alpha.Workers, cfg.Alpha.QueueDepth)
	for _, spec := range cfg.Alpha.Strategies {
		count := spec.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			strategy, err := alpha.NewStrategy(spec.Type, fmt.Sprintf("%s_%d", spec.Type, i), spec.Param)
			if err != nil {
				log.Fatalf("strategy init failed: %v", err)
			}
			engine.AddAlpha(strategy)
		}
	}
	if cfg.Alpha.PluginDir != "" {
		if err := engine.LoadPlugins(cfg.Alpha.PluginDir); err != nil {
			log.Fatalf("plugin load failed: %v", err)
		}
	}

	publisher := relay.NewPublisher(cfg.Alpha.SignalSocket)
	engine.RegisterSignalCallback(func(sig model.Signal) {
		if err := publisher.Publish(bus.Event{
			Kind:    codec.KindSignal,
			Payload: codec.EncodeSignal(nil, sig),
		}); err != nil {
			metrics.Inc(obs.CounterSignalsDropped)
			prom.IncCounter(obs.CounterSignalsDropped)
			return
		}
		metrics.Inc(obs.CounterSignalsEmitted)
		prom.IncCounter(obs.CounterSignalsEmitted)
	})

	if !engine.Start() {
		log.Fatalf("engine already running")
	}

	server, err := relay.NewServer(cfg.Alpha.TickSocket)
	if err != nil {
		log.Fatalf("tick socket init failed: %v", err)
	}
	started, err := server.Start(func(e bus.Event) {
		if e.Kind != codec.KindTick {
			return
		}
		tick, ok := codec.DecodeTick(e.Payload)
		if !ok {
			return
		}
		start := time.Now()
		engine.ProcessTick(tick)
		elapsed := time.Since(start)
		metrics.ObserveLatency(obs.LatencyTickHandling, elapsed)
		prom.ObserveLatency(obs.LatencyTickHandling, elapsed)
	})
	if err != nil {
		log.Fatalf("tick socket listen failed: %v", err)
	}
	if !started {
		log.Fatalf("tick socket already running")
	}

	numAlphas, _ := engine.Stats()
	logs.Infof("alpha engine started with %d alphas on %d workers", numAlphas, cfg.Alpha.Workers)

	ticker := time.NewTicker(*statsInterval)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			numAlphas, numSignals := engine.Stats()
			logs.Infof("stats: alphas=%d signals=%d dropped_ticks=%d relay_drops=%d",
				numAlphas, numSignals, engine.TicksDropped(), publisher.Dropped())
		}
	}

	server.Stop()
	engine.Stop()
	publisher.Close()
	logs.Info("alpha engine stopped")
}
