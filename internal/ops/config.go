package ops

import (
	"encoding/json"
	"os"

	"github.com/yanun0323/errors"
)

// FileConfig mirrors the JSON config layout shared by the services. Load
// decodes the file over Default(): fields absent from the file keep their
// defaults, while fields present in it (zeros included) replace them.
type FileConfig struct {
	Feed       FeedConfig       `json:"feed"`
	Alpha      AlphaConfig      `json:"alpha"`
	Aggregator AggregatorConfig `json:"aggregator"`
	Risk       RiskConfig       `json:"risk"`

	MetricsAddr string `json:"metricsAddr"`
	ProfileAddr string `json:"profileAddr"`
}

// FeedConfig configures the feed dispatcher service.
type FeedConfig struct {
	Group      string `json:"group"`
	Port       int    `json:"port"`
	TickSocket string `json:"tickSocket"`
	RecordPath string `json:"recordPath"`
}

// StrategySpec declares a block of strategies to register.
type StrategySpec struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Param int    `json:"param"`
}

// AlphaConfig configures the alpha engine service.
type AlphaConfig struct {
	Workers      int            `json:"workers"`
	QueueDepth   int            `json:"queueDepth"`
	PluginDir    string         `json:"pluginDir"`
	TickSocket   string         `json:"tickSocket"`
	SignalSocket string         `json:"signalSocket"`
	Strategies   []StrategySpec `json:"strategies"`
}

// AggregatorConfig configures the signal aggregator service.
type AggregatorConfig struct {
	Policy              string `json:"policy"`
	MaxSignalsPerSymbol int    `json:"maxSignalsPerSymbol"`
	ExpirySeconds       int    `json:"expirySeconds"`
	FlushSeconds        int    `json:"flushSeconds"`
	SignalSocket        string `json:"signalSocket"`
	TargetSocket        string `json:"targetSocket"`
}

// CheckConfig configures one risk check. Disabled checks are not built.
type CheckConfig struct {
	Enabled bool    `json:"enabled"`
	MaxPct  float64 `json:"maxPct"`
}

// RiskConfig configures the risk guardian service.
type RiskConfig struct {
	InitialNAV    float64            `json:"initialNAV"`
	FatFinger     CheckConfig        `json:"fatFinger"`
	Drawdown      CheckConfig        `json:"drawdown"`
	Concentration CheckConfig        `json:"concentration"`
	ADV           map[string]float64 `json:"adv"`
	OrderSocket   string             `json:"orderSocket"`
	PostgresDSN   string             `json:"postgresDsn"`
}

// Default returns the configuration used when no file is given.
func Default() FileConfig {
	return FileConfig{
		Feed: FeedConfig{
			Group:      "239.255.0.1",
			Port:       12345,
			TickSocket: "/tmp/quantpipe-ticks.sock",
		},
		Alpha: AlphaConfig{
			Workers:      8,
			QueueDepth:   4096,
			TickSocket:   "/tmp/quantpipe-ticks.sock",
			SignalSocket: "/tmp/quantpipe-signals.sock",
			Strategies: []StrategySpec{
				{Type: "MeanReversion", Count: 100, Param: 20},
				{Type: "Momentum", Count: 100, Param: 10},
			},
		},
		Aggregator: AggregatorConfig{
			Policy:              "WeightedAverage",
			MaxSignalsPerSymbol: 1000,
			ExpirySeconds:       60,
			FlushSeconds:        1,
			SignalSocket:        "/tmp/quantpipe-signals.sock",
			TargetSocket:        "/tmp/quantpipe-targets.sock",
		},
		Risk: RiskConfig{
			InitialNAV:    1_000_000,
			FatFinger:     CheckConfig{Enabled: true, MaxPct: 0.05},
			Drawdown:      CheckConfig{Enabled: true, MaxPct: 0.05},
			Concentration: CheckConfig{Enabled: true, MaxPct: 0.10},
			OrderSocket:   "/tmp/quantpipe-orders.sock",
		},
	}
}

// Load reads a JSON config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (FileConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, errors.Wrap(err, "read config")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}
