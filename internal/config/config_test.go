package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 20280 {
		t.Errorf("Port = %d, want 20280", cfg.Server.Port)
	}
	if cfg.Data.DBPath != "data/sales.db" {
		t.Errorf("DBPath = %q", cfg.Data.DBPath)
	}
	if cfg.Analytics.CreditRatioThreshold != 2.0 {
		t.Errorf("CreditRatioThreshold = %v, want 2.0", cfg.Analytics.CreditRatioThreshold)
	}
	if cfg.Analytics.RecencyThresholdDays != 180 {
		t.Errorf("RecencyThresholdDays = %d, want 180", cfg.Analytics.RecencyThresholdDays)
	}
	if cfg.Analytics.MinCooccurrence != 3 {
		t.Errorf("MinCooccurrence = %d, want 3", cfg.Analytics.MinCooccurrence)
	}
}

func TestUnmarshalOverridesDefaults(t *testing.T) {
	data := []byte(`
[server]
port = 9000
dev_mode = true

[analytics]
credit_ratio_threshold = 3.5
`)
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.Server.Port != 9000 || !cfg.Server.DevMode {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Analytics.CreditRatioThreshold != 3.5 {
		t.Errorf("CreditRatioThreshold = %v, want 3.5", cfg.Analytics.CreditRatioThreshold)
	}
	// 未覆盖的字段保持默认
	if cfg.Analytics.RecencyThresholdDays != 180 {
		t.Errorf("RecencyThresholdDays = %d, want 180", cfg.Analytics.RecencyThresholdDays)
	}
	if cfg.Data.DBPath != "data/sales.db" {
		t.Errorf("DBPath = %q", cfg.Data.DBPath)
	}
}

func TestIsPortSpecifiedInToml(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected bool
	}{
		{"指定端口", "[server]\nport = 8080\n", true},
		{"仅其他字段", "[server]\ndev_mode = true\n", false},
		{"无 server 段", "[data]\ndb_path = \"x.db\"\n", false},
		{"非法 toml", "port ==", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPortSpecifiedInToml([]byte(tt.data)); got != tt.expected {
				t.Errorf("isPortSpecifiedInToml = %v, want %v", got, tt.expected)
			}
		})
	}
}
