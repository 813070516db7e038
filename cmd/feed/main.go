package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/codec"
	"main/internal/feed"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/recorder"
	"main/internal/relay"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	group := flag.String("group", "", "Multicast group address (overrides config)")
	port := flag.Int("port", 0, "Multicast port (overrides config)")
	tickSocket := flag.String("tick-socket", "", "Downstream tick socket (overrides config)")
	recordPath := flag.String("record", "", "Tick journal path (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listen address (overrides config)")
	statsInterval := flag.Duration("stats-interval", 5*time.Second, "Stats log interval")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *group != "" {
		cfg.Feed.Group = *group
	}
	if *port != 0 {
		cfg.Feed.Port = *port
	}
	if *tickSocket != "" {
		cfg.Feed.TickSocket = *tickSocket
	}
	if *recordPath != "" {
		cfg.Feed.RecordPath = *recordPath
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := obs.NewMetrics()
	var prom *obs.Recorder
	if cfg.MetricsAddr != "" {
		prom = obs.NewRecorder("feed")
		go obs.Serve(cfg.MetricsAddr)
	}

	var journal *recorder.Writer
	if cfg.Feed.RecordPath != "" {
		journal, err = recorder.NewWriter(cfg.Feed.RecordPath)
		if err != nil {
			log.Fatalf("tick journal open failed: %v", err)
		}
	}

	publisher := relay.NewPublisher(cfg.Feed.TickSocket)
	queue := bus.NewQueue(4096)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Background context: the queue drains fully on Close at shutdown.
		queue.Run(context.Background(), func(e bus.Event) {
			if err := publisher.Publish(e); err == nil {
				metrics.Inc(obs.CounterTicksPublished)
				prom.IncCounter(obs.CounterTicksPublished)
			}
		})
	}()

	dispatcher := feed.NewDispatcher(cfg.Feed.Group, cfg.Feed.Port)
	dispatcher.RegisterNormalizer(enum.ExchangeNYSE, codec.NewNYSENormalizer())
	dispatcher.RegisterNormalizer(enum.ExchangeNASDAQ, codec.NewNASDAQNormalizer())
	dispatcher.RegisterCallback(func(tick model.Tick) {
		prom.SetLastPrice(tick.Symbol, tick.Last)
		if journal != nil {
			if err := journal.Append(tick); err != nil {
				logs.Errorf("tick journal append, err: %+v", err)
			}
		}
		if err := queue.TryPublish(bus.Event{
			Kind:    codec.KindTick,
			Payload: codec.EncodeTick(nil, tick),
		}); err != nil {
			metrics.Inc(obs.CounterQueueDrops)
			prom.IncCounter(obs.CounterQueueDrops)
		}
	})

	started, err := dispatcher.Start()
	if err != nil {
		log.Fatalf("dispatcher start failed: %v", err)
	}
	if !started {
		log.Fatalf("dispatcher already running")
	}
	logs.Infof("feed dispatcher listening on %s:%d", cfg.Feed.Group, cfg.Feed.Port)

	ticker := time.NewTicker(*statsInterval)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			received, processed := dispatcher.Stats()
			if received > 0 {
				logs.Infof("stats: received=%d processed=%d published=%d queue_drops=%d relay_drops=%d",
					received, processed,
					metrics.Get(obs.CounterTicksPublished),
					metrics.Get(obs.CounterQueueDrops),
					publisher.Dropped())
			}
		}
	}

	dispatcher.Stop()
	queue.Close()
	wg.Wait()
	publisher.Close()
	if journal != nil {
		if err := journal.Close(); err != nil {
			logs.Errorf("tick journal close, err: %+v", err)
		}
	}
	logs.Info("feed dispatcher stopped")
}
