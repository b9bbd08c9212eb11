package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/ByLCY/sheetpress/layout"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "DATABASE_URL", "REDIS_URL", "PAGE_RESERVED_BOTTOM_MM", "PAGE_GAP_MM", "PREVIEW_CACHE_TTL_SECONDS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.ServerPort != "8080" || cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PreviewCacheTTL != 10*time.Minute {
		t.Fatalf("ttl = %v", cfg.PreviewCacheTTL)
	}
	if !reflect.DeepEqual(cfg.Params(), layout.DefaultParams()) {
		t.Fatalf("params = %+v, want defaults", cfg.Params())
	}
	if cfg.GapMM != 4 {
		t.Fatalf("gap = %g", cfg.GapMM)
	}
}

func TestLoadPageMargins(t *testing.T) {
	t.Setenv("PAGE_RESERVED_BOTTOM_MM", "1.5cm")
	t.Setenv("PAGE_ROUNDING_BUFFER_MM", "5")
	t.Setenv("PAGE_MIN_AVAILABLE_MM", "bogus")
	t.Setenv("PAGE_GAP_MM", "-2")
	cfg := Load()
	p := cfg.Params()
	if p.ReservedBottomMM != 15 || p.RoundingBufferMM != 5 {
		t.Fatalf("margins not applied: %+v", p)
	}
	if p.MinAvailableMM != 40 {
		t.Fatalf("invalid value should fall back, got %g", p.MinAvailableMM)
	}
	if cfg.GapMM != 4 {
		t.Fatalf("negative gap should fall back, got %g", cfg.GapMM)
	}
}

func TestParseOrigins(t *testing.T) {
	if parseOrigins("") != nil {
		t.Fatalf("empty input means allow-all")
	}
	got := parseOrigins(" http://a.test , ,http://b.test")
	if !reflect.DeepEqual(got, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("origins = %v", got)
	}
}
