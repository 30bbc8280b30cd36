package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roaziy/gdg-news-bot/internal/domain"
)

const (
	configPathEnv      = "GDG_NEWS_CONFIG"
	discordTokenEnv    = "DISCORD_TOKEN"
	channelIDsEnv      = "DISCORD_CHANNEL_IDS"
	legacyChannelEnv   = "DISCORD_CHANNEL_ID"
	checkIntervalEnv   = "NEWS_CHECK_INTERVAL_HOURS"
	dailyHourEnv       = "NEWS_DAILY_HOUR_UTC"
	maxPerPostEnv      = "MAX_NEWS_PER_POST"
	strictFilterEnv    = "STRICT_TECH_FILTER"
	targetLanguageEnv  = "TARGET_LANGUAGE"
	healthPortEnv      = "HEALTH_PORT"
	renderPortEnv      = "PORT"
)

// Config holds high-level settings required across the application.
type Config struct {
	Discord     DiscordConfig     `yaml:"discord"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	News        NewsConfig        `yaml:"news"`
	Translation TranslationConfig `yaml:"translation"`
	Health      HealthConfig      `yaml:"health"`
	Logging     LoggingConfig     `yaml:"logging"`
	Sources     []SourceConfig    `yaml:"sources"`
}

// DiscordConfig wires the bot token and the destination channels.
type DiscordConfig struct {
	Token      string   `yaml:"token"`
	ChannelIDs []string `yaml:"channelIds"`
}

// ScheduleConfig defines when the scheduled delivery runs. When DailyHourUTC
// is set (0..23) the bot posts once per day at that UTC hour; otherwise every
// IntervalHours since the last successful delivery.
type ScheduleConfig struct {
	IntervalHours int  `yaml:"intervalHours"`
	DailyHourUTC  *int `yaml:"dailyHourUtc"`
}

// DailyHour returns the fixed daily trigger hour and whether one is configured.
func (s ScheduleConfig) DailyHour() (int, bool) {
	if s.DailyHourUTC == nil || *s.DailyHourUTC < 0 || *s.DailyHourUTC > 23 {
		return 0, false
	}
	return *s.DailyHourUTC, true
}

// NewsConfig controls fetching, filtering, and windowing of feed entries.
type NewsConfig struct {
	MaxPerPost    int    `yaml:"maxPerPost"`
	OnDemandLimit int    `yaml:"onDemandLimit"`
	StrictFilter  bool   `yaml:"strictFilter"`
	LookbackHours int    `yaml:"lookbackHours"`
	ScanLimit     int    `yaml:"scanLimit"`
	WatermarkFile string `yaml:"watermarkFile"`
}

// TranslationConfig defines the translation backend languages.
type TranslationConfig struct {
	SourceLanguage string `yaml:"sourceLanguage"`
	TargetLanguage string `yaml:"targetLanguage"`
}

// HealthConfig describes the health-check HTTP server.
type HealthConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig selects the console log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig describes one RSS feed to poll.
type SourceConfig struct {
	Name    string `yaml:"name"`
	FeedURL string `yaml:"feedUrl"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

// Validate reports every missing required value at once so operators fix the
// deployment in one pass instead of one restart per key.
func (c Config) Validate() error {
	var missing []string
	if c.Discord.Token == "" {
		missing = append(missing, "discord token ("+discordTokenEnv+")")
	}
	if len(c.Discord.ChannelIDs) == 0 {
		missing = append(missing, "discord channels ("+channelIDsEnv+")")
	}
	if len(c.Sources) == 0 {
		missing = append(missing, "news sources")
	}
	if len(missing) > 0 {
		return &domain.MissingConfigError{Keys: missing}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(discordTokenEnv); v != "" {
		c.Discord.Token = v
	}

	if v := os.Getenv(channelIDsEnv); v != "" {
		c.Discord.ChannelIDs = splitChannelList(v)
	} else if v := os.Getenv(legacyChannelEnv); v != "" && v != "0" {
		// Backward compatibility: single-channel deployments.
		c.Discord.ChannelIDs = []string{strings.TrimSpace(v)}
	}

	if v, ok := envInt(checkIntervalEnv); ok {
		c.Schedule.IntervalHours = v
	}
	if v, ok := envInt(dailyHourEnv); ok {
		c.Schedule.DailyHourUTC = &v
	}
	if v, ok := envInt(maxPerPostEnv); ok {
		c.News.MaxPerPost = v
	}
	if v := os.Getenv(strictFilterEnv); v != "" {
		c.News.StrictFilter = strings.EqualFold(strings.TrimSpace(v), "true")
	}
	if v := os.Getenv(targetLanguageEnv); v != "" {
		c.Translation.TargetLanguage = v
	}
	if v, ok := envInt(healthPortEnv); ok {
		c.Health.Port = v
	} else if v, ok := envInt(renderPortEnv); ok {
		// Render.com injects PORT for web services.
		c.Health.Port = v
	}
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("config: %s=%q is not a number, ignoring", key, raw)
		return 0, false
	}
	return v, true
}

func splitChannelList(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func mergeConfig(base, override Config) Config {
	if override.Discord.Token != "" {
		base.Discord.Token = override.Discord.Token
	}
	if len(override.Discord.ChannelIDs) > 0 {
		base.Discord.ChannelIDs = override.Discord.ChannelIDs
	}

	if override.Schedule.IntervalHours != 0 {
		base.Schedule.IntervalHours = override.Schedule.IntervalHours
	}
	if override.Schedule.DailyHourUTC != nil {
		base.Schedule.DailyHourUTC = override.Schedule.DailyHourUTC
	}

	if override.News.MaxPerPost != 0 {
		base.News.MaxPerPost = override.News.MaxPerPost
	}
	if override.News.OnDemandLimit != 0 {
		base.News.OnDemandLimit = override.News.OnDemandLimit
	}
	if override.News.LookbackHours != 0 {
		base.News.LookbackHours = override.News.LookbackHours
	}
	if override.News.ScanLimit != 0 {
		base.News.ScanLimit = override.News.ScanLimit
	}
	if override.News.WatermarkFile != "" {
		base.News.WatermarkFile = override.News.WatermarkFile
	}

	if override.Translation.SourceLanguage != "" {
		base.Translation.SourceLanguage = override.Translation.SourceLanguage
	}
	if override.Translation.TargetLanguage != "" {
		base.Translation.TargetLanguage = override.Translation.TargetLanguage
	}

	if override.Health.Port != 0 {
		base.Health.Port = override.Health.Port
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Discord: DiscordConfig{},
		Schedule: ScheduleConfig{
			IntervalHours: 4,
		},
		News: NewsConfig{
			MaxPerPost:    3,
			OnDemandLimit: 2,
			StrictFilter:  true,
			LookbackHours: 24,
			ScanLimit:     20,
			WatermarkFile: "last_check.json",
		},
		Translation: TranslationConfig{
			SourceLanguage: "en",
			TargetLanguage: "mn",
		},
		Health:  HealthConfig{Port: 10000},
		Logging: LoggingConfig{Level: "info"},
		Sources: []SourceConfig{
			{Name: "The Verge", FeedURL: "https://www.theverge.com/rss/index.xml"},
			{Name: "TechCrunch", FeedURL: "https://techcrunch.com/feed/"},
		},
	}
}
