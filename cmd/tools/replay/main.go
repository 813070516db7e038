package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/codec"
	"main/internal/model/enum"
	"main/internal/recorder"
)

func main() {
	journalPath := flag.String("journal", "", "Tick journal path (required)")
	group := flag.String("group", "239.255.0.1", "Multicast group address")
	port := flag.Int("port", 12345, "Multicast port")
	speed := flag.Float64("speed", 0, "Playback speed (1=real-time, 0=no pacing)")
	flag.Parse()

	if *journalPath == "" {
		log.Fatalf("journal path is required")
	}

	reader, err := recorder.NewReader(*journalPath)
	if err != nil {
		log.Fatalf("journal open failed: %v", err)
	}
	defer reader.Close()

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

	var prevTs int64
	sent := 0
	frame := make([]byte, 0, codec.MinFrameLen+16)
	for {
		select {
		case <-ctx.Done():
			logs.Infof("replayed %d ticks", sent)
			return
		default:
		}

		tick, err := reader.Next()
		if err == io.EOF {
			logs.Infof("replayed %d ticks", sent)
			return
		}
		if err != nil {
			log.Fatalf("journal read failed: %v", err)
		}

		if *speed > 0 && prevTs > 0 && tick.TimestampNs > prevTs {
			delay := time.Duration(float64(tick.TimestampNs-prevTs) / *speed)
			select {
			case <-ctx.Done():
				logs.Infof("replayed %d ticks", sent)
				return
			case <-time.After(delay):
			}
		}
		prevTs = tick.TimestampNs

		switch tick.Exchange {
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
