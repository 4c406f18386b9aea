package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"container_monitor/internal/models"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	Port       string           `mapstructure:"port"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Store      StoreConfig      `mapstructure:"store"`
	Monitor    MonitorConfig    `mapstructure:"monitor"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	History    HistoryConfig    `mapstructure:"history"`
	Queue      QueueConfig      `mapstructure:"queue"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	Simulator  SimulatorConfig  `mapstructure:"simulator"`
}

// HTTPConfig tunes the listener; zero values keep the server defaults.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type StoreConfig struct {
	Backend  string         `mapstructure:"backend"`
	DynamoDB DynamoDBConfig `mapstructure:"dynamodb"`
}

type DynamoDBConfig struct {
	Table    string `mapstructure:"table"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

type MonitorConfig struct {
	BufferSize      int           `mapstructure:"buffer_size"`
	PersistInterval time.Duration `mapstructure:"persist_interval"`
	LivenessTimeout time.Duration `mapstructure:"liveness_timeout"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	AlarmInterval   time.Duration `mapstructure:"alarm_interval"`
	LabelLayout     string        `mapstructure:"label_layout"`
	Timezone        string        `mapstructure:"timezone"`
}

type Band struct {
	Min *float64 `mapstructure:"min"`
	Max *float64 `mapstructure:"max"`
}

func (b Band) ThresholdConfig() models.ThresholdConfig {
	return models.ThresholdConfig{Min: b.Min, Max: b.Max}.Clone()
}

type ThresholdsConfig struct {
	Live    Band `mapstructure:"live"`
	Persist Band `mapstructure:"persist"`
	Import  Band `mapstructure:"import"`
}

type HistoryConfig struct {
	MaxPoints   int           `mapstructure:"max_points"`
	MinGap      time.Duration `mapstructure:"min_gap"`
	LabelLayout string        `mapstructure:"label_layout"`
}

type QueueConfig struct {
	Capacity     int           `mapstructure:"capacity"`
	MaxBatchSize int           `mapstructure:"max_batch_size"`
	OnFull       string        `mapstructure:"on_full"`
	IdleSleep    time.Duration `mapstructure:"idle_sleep"`
}

type MQTTConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Broker        string        `mapstructure:"broker"`
	ClientID      string        `mapstructure:"client_id"`
	ReadingsTopic string        `mapstructure:"readings_topic"`
	HistoryTopic  string        `mapstructure:"history_topic"`
	KeepAlive     time.Duration `mapstructure:"keep_alive"`
}

type SimulatorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Tick    time.Duration `mapstructure:"tick"`
}

// Load reads the YAML file at path (if any) and MONITOR_* environment
// overrides, e.g. MONITOR_MQTT_BROKER.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every scalar key so env overrides resolve even when
// the file omits them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "monitor.db")
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.dynamodb.table", "")
	v.SetDefault("store.dynamodb.region", "")
	v.SetDefault("store.dynamodb.endpoint", "")
	v.SetDefault("monitor.timezone", "Local")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "container-monitor")
	v.SetDefault("mqtt.readings_topic", "device")
	v.SetDefault("mqtt.history_topic", "device/history")
	v.SetDefault("queue.on_full", "drop")
	v.SetDefault("simulator.enabled", false)
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendSQLite
	}
	if c.Store.DynamoDB.Table == "" {
		c.Store.DynamoDB.Table = "history_records"
	}
	if c.Monitor.BufferSize == 0 {
		c.Monitor.BufferSize = 50
	}
	if c.Monitor.PersistInterval == 0 {
		c.Monitor.PersistInterval = 5 * time.Second
	}
	if c.Monitor.LivenessTimeout == 0 {
		c.Monitor.LivenessTimeout = 3 * time.Second
	}
	if c.Monitor.PollInterval == 0 {
		c.Monitor.PollInterval = 500 * time.Millisecond
	}
	if c.Monitor.AlarmInterval == 0 {
		c.Monitor.AlarmInterval = 2 * time.Second
	}
	if c.Monitor.LabelLayout == "" {
		c.Monitor.LabelLayout = "15:04:05"
	}
	if c.Thresholds.Import.Min == nil && c.Thresholds.Import.Max == nil {
		lo, hi := 6.0, 12.0
		c.Thresholds.Import = Band{Min: &lo, Max: &hi}
	}
	if c.History.MaxPoints == 0 {
		c.History.MaxPoints = 50
	}
	if c.History.MinGap == 0 {
		c.History.MinGap = 5 * time.Second
	}
	if c.History.LabelLayout == "" {
		c.History.LabelLayout = "02 Jan 15:04"
	}
	if c.Queue.Capacity == 0 {
		c.Queue.Capacity = 1024
	}
	if c.Queue.MaxBatchSize == 0 {
		c.Queue.MaxBatchSize = 500
	}
	if c.Queue.OnFull == "" {
		c.Queue.OnFull = "drop"
	}
	if c.Queue.IdleSleep == 0 {
		c.Queue.IdleSleep = 50 * time.Millisecond
	}
	if c.MQTT.KeepAlive == 0 {
		c.MQTT.KeepAlive = 30 * time.Second
	}
	if c.Simulator.Tick == 0 {
		c.Simulator.Tick = time.Second
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if c.DB.Path == "" {
			return errors.New("db.path is required for the sqlite backend")
		}
	case BackendDynamoDB:
		if c.Store.DynamoDB.Region == "" && c.Store.DynamoDB.Endpoint == "" {
			return errors.New("store.dynamodb.region or store.dynamodb.endpoint is required")
		}
	default:
		return fmt.Errorf("store.backend %q is not one of sqlite, dynamodb", c.Store.Backend)
	}
	if c.Monitor.BufferSize < 0 || c.History.MaxPoints < 0 {
		return errors.New("monitor.buffer_size and history.max_points must not be negative")
	}
	// ingestion never waits on the store, so a full queue can only drop
	if c.Queue.OnFull != "drop" {
		return fmt.Errorf("queue.on_full %q is not supported; only drop", c.Queue.OnFull)
	}
	if c.Queue.MaxBatchSize > 500 {
		return errors.New("queue.max_batch_size must not exceed 500")
	}
	for name, b := range map[string]Band{
		"live": c.Thresholds.Live, "persist": c.Thresholds.Persist, "import": c.Thresholds.Import,
	} {
		if (b.Min == nil) != (b.Max == nil) {
			return fmt.Errorf("thresholds.%s needs both min and max, or neither", name)
		}
		if b.Min != nil && *b.Min > *b.Max {
			return fmt.Errorf("thresholds.%s: min %v > max %v", name, *b.Min, *b.Max)
		}
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return errors.New("mqtt.broker is required when mqtt is enabled")
	}
	if c.Simulator.Tick <= 0 || c.Monitor.PollInterval <= 0 {
		return errors.New("simulator.tick and monitor.poll_interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves monitor.timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Monitor.Timezone == "" || c.Monitor.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Monitor.Timezone)
	if err != nil {
		return nil, fmt.Errorf("monitor.timezone: %w", err)
	}
	return loc, nil
}

// PersistBand returns the configured persistence band, or nil to use the live band.
func (c *Config) PersistBand() *models.ThresholdConfig {
	if c.Thresholds.Persist.Min == nil {
		return nil
	}
	b := c.Thresholds.Persist.ThresholdConfig()
	return &b
}
