package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/codec"
	"main/internal/model"
	"main/internal/model/enum"
)

type symbolState struct {
	symbol     string
	price      float64
	volatility float64
	spread     float64
	exchange   enum.Exchange
}

func defaultSymbols() []*symbolState {
	specs := []struct {
		symbol     string
		price      float64
		volatility float64
		exchange   enum.Exchange
	}{
		{"AAPL", 150.0, 0.015, enum.ExchangeNYSE},
		{"GOOGL", 2800.0, 0.020, enum.ExchangeNASDAQ},
		{"MSFT", 300.0, 0.012, enum.ExchangeNASDAQ},
		{"AMZN", 3200.0, 0.018, enum.ExchangeNASDAQ},
		{"TSLA", 700.0, 0.030, enum.ExchangeNYSE},
	}
	out := make([]*symbolState, 0, len(specs))
	for _, s := range specs {
		out = append(out, &symbolState{
			symbol:     s.symbol,
			price:      s.price,
			volatility: s.volatility,
			spread:     s.price * 0.001,
			exchange:   s.exchange,
		})
	}
	return out
}

func parseSymbols(spec string) []*symbolState {
	if spec == "" {
		return defaultSymbols()
	}
	// Format: SYMBOL:price[:nyse|nasdaq],...
	var out []*symbolState
	for _, part := range strings.Split(spec, ",") {
		fields := strings.Split(part, ":")
		if len(fields) < 2 {
			log.Fatalf("invalid symbol spec: %s", part)
		}
		price, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || price <= 0 {
			log.Fatalf("invalid price in symbol spec: %s", part)
		}
		exchange := enum.ExchangeNYSE
		if len(fields) > 2 && strings.EqualFold(fields[2], "nasdaq") {
			exchange = enum.ExchangeNASDAQ
		}
		out = append(out, &symbolState{
			symbol:     fields[0],
			price:      price,
			volatility: 0.015,
			spread:     price * 0.001,
			exchange:   exchange,
		})
	}
	return out
}

func (s *symbolState) nextTick(rng *rand.Rand) model.Tick {
	s.price += rng.NormFloat64() * s.volatility * s.price
	if s.price < 0.01 {
		s.price = 0.01
	}
	return model.Tick{
		Symbol:      s.symbol,
		Bid:         s.price - s.spread/2,
		Ask:         s.price + s.spread/2,
		Last:        s.price,
		BidSize:     int64(100 + rng.Intn(9900)),
		AskSize:     int64(100 + rng.Intn(9900)),
		Volume:      int64(10_000 + rng.Intn(990_000)),
		TimestampNs: time.Now().UnixNano(),
		AssetType:   enum.AssetTypeEquity,
		Exchange:    s.exchange,
	}
}

func main() {
	group := flag.String("group", "239.255.0.1", "Multicast group address")
	port := flag.Int("port", 12345, "Multicast port")
	symbolsSpec := flag.String("symbols", "", "Symbol spec SYMBOL:price[:exchange],... (default: a built-in basket)")
	rate := flag.Int("rate", 10, "Ticks per second")
	duration := flag.Duration("duration", 60*time.Second, "Run duration (0=until interrupted)")
	seed := flag.Int64("seed", 0, "Random seed (0=time-based)")
	flag.Parse()

	if *rate <= 0 {
		log.Fatalf("rate must be > 0")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(*group, strconv.Itoa(*port)))
	if err != nil {
		log.Fatalf("resolve multicast addr failed: %v", err)
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		log.Fatalf("dial multicast failed: %v", err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	symbols := parseSymbols(*symbolsSpec)
	logs.Infof("generating %d ticks/s for %d symbols to %s:%d", *rate, len(symbols), *group, *port)

	ticker := time.NewTicker(time.Second / time.Duration(*rate))
	defer ticker.Stop()

	sent := 0
	frame := make([]byte, 0, codec.MinFrameLen+16)
	for {
		select {
		case <-ctx.Done():
			logs.Infof("sent %d ticks", sent)
			return
		case <-ticker.C:
			s := symbols[sent%len(symbols)]
			tick := s.nextTick(rng)
			switch s.exchange {
			case enum.ExchangeNASDAQ:
				frame = codec.EncodeNASDAQ(frame, tick)
			default:
				frame = codec.EncodeNYSE(frame, tick)
			}
			if _, err := conn.Write(frame); err != nil {
				logs.Errorf("multicast send, err: %+v", err)
				continue
			}
			sent++
		}
	}
}
