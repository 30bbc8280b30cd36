package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roaziy/gdg-news-bot/internal/domain"
)

// clearEnv blanks every config-relevant variable so ambient shell state
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, discordTokenEnv, channelIDsEnv, legacyChannelEnv,
		checkIntervalEnv, dailyHourEnv, maxPerPostEnv, strictFilterEnv,
		targetLanguageEnv, healthPortEnv, renderPortEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Schedule.IntervalHours != 4 {
		t.Errorf("IntervalHours = %d, want 4", cfg.Schedule.IntervalHours)
	}
	if _, ok := cfg.Schedule.DailyHour(); ok {
		t.Error("DailyHour configured by default, want unset")
	}
	if cfg.News.MaxPerPost != 3 || cfg.News.OnDemandLimit != 2 {
		t.Errorf("News limits = %d/%d, want 3/2", cfg.News.MaxPerPost, cfg.News.OnDemandLimit)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(cfg.Sources))
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(discordTokenEnv, "tok")
	t.Setenv(channelIDsEnv, " 111, 222 ,,333")
	t.Setenv(dailyHourEnv, "0")
	t.Setenv(strictFilterEnv, "false")
	t.Setenv(healthPortEnv, "8080")

	cfg := Load()

	if cfg.Discord.Token != "tok" {
		t.Errorf("Token = %q", cfg.Discord.Token)
	}
	want := []string{"111", "222", "333"}
	if len(cfg.Discord.ChannelIDs) != len(want) {
		t.Fatalf("ChannelIDs = %v, want %v", cfg.Discord.ChannelIDs, want)
	}
	for i, id := range want {
		if cfg.Discord.ChannelIDs[i] != id {
			t.Errorf("ChannelIDs[%d] = %q, want %q", i, cfg.Discord.ChannelIDs[i], id)
		}
	}

	// Hour zero (midnight UTC) must be distinguishable from "not configured".
	hour, ok := cfg.Schedule.DailyHour()
	if !ok || hour != 0 {
		t.Errorf("DailyHour() = %d, %v, want 0, true", hour, ok)
	}

	if cfg.News.StrictFilter {
		t.Error("StrictFilter = true, want false")
	}
	if cfg.Health.Port != 8080 {
		t.Errorf("Health.Port = %d, want 8080", cfg.Health.Port)
	}
}

func TestLegacySingleChannelFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv(legacyChannelEnv, "42")

	cfg := Load()
	if len(cfg.Discord.ChannelIDs) != 1 || cfg.Discord.ChannelIDs[0] != "42" {
		t.Errorf("ChannelIDs = %v, want [42]", cfg.Discord.ChannelIDs)
	}
}

func TestYAMLFileMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
discord:
  channelIds: ["999"]
schedule:
  intervalHours: 6
news:
  maxPerPost: 5
sources:
  - name: Ars Technica
    feedUrl: https://feeds.arstechnica.com/arstechnica/index
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Schedule.IntervalHours != 6 {
		t.Errorf("IntervalHours = %d, want 6", cfg.Schedule.IntervalHours)
	}
	if cfg.News.MaxPerPost != 5 {
		t.Errorf("MaxPerPost = %d, want 5", cfg.News.MaxPerPost)
	}
	// Unset file values keep their defaults.
	if cfg.News.ScanLimit != 20 {
		t.Errorf("ScanLimit = %d, want default 20", cfg.News.ScanLimit)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "Ars Technica" {
		t.Errorf("Sources = %v", cfg.Sources)
	}
}

func TestValidateReportsAllMissingKeys(t *testing.T) {
	cfg := Config{}

	err := cfg.Validate()
	var missing *domain.MissingConfigError
	if !errors.As(err, &missing) {
		t.Fatalf("Validate() = %v, want MissingConfigError", err)
	}
	if len(missing.Keys) != 3 {
		t.Errorf("missing keys = %v, want token, channels, sources", missing.Keys)
	}
}
