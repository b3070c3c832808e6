package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"channel-insights/infrastructure/logger"

	"github.com/spf13/viper"
)

const (
	CacheBackendFile     = "file"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
	CacheBackendMongo    = "mongo"
	CacheBackendMSSQL    = "mssql"

	ExtractorModeYtdlp = "ytdlp"
	ExtractorModeAPI   = "api"

	NotifierNone       = "none"
	NotifierPubsub     = "pubsub"
	NotifierServiceBus = "servicebus"
)

type Config struct {
	App         App         `json:"app"`
	Cache       Cache       `json:"cache"`
	Extractor   Extractor   `json:"extractor"`
	Dashboard   Dashboard   `json:"dashboard"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	Notifier    string      `json:"notifier"`
	Cors        Cors        `json:"cors"`
}

type App struct {
	Port        int    `json:"port"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

// Cache selects where channel datasets are materialized
type Cache struct {
	Backend string `json:"backend"`
	Dir     string `json:"dir"`
}

// Extractor selects the video metadata extraction capability
type Extractor struct {
	Mode           string   `json:"mode"`
	YtdlpPath      string   `json:"ytdlpPath"`
	TimeoutSeconds int      `json:"timeoutSeconds"`
	ExtraArgs      []string `json:"extraArgs"`
	APIKey         string   `json:"apiKey"`
	AccessToken    string   `json:"accessToken"`
	// RequestsPerSecond paces extractor calls; 0 disables pacing
	RequestsPerSecond float64 `json:"requestsPerSecond"`
}

type Dashboard struct {
	DefaultChannel string `json:"defaultChannel"`
	MaxResults     int    `json:"maxResults"`
	MaxResultsCap  int    `json:"maxResultsCap"`
	TopN           int    `json:"topN"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mssql Db `json:"mssql"`
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	DB       int    `json:"db"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace        string `json:"namespace"`
	ConnectionString string `json:"connectionString"`
	Queue            string `json:"queue"`
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins"`
}

var C Config

func init() {
	LoadEnvFromFile("config.env", ".env")
	LoadConfig()
	ApplyDefaults(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// ApplyDefaults overlays environment overrides and fills unset values
func ApplyDefaults(c *Config) {
	initApp(c)
	initCache(c)
	initExtractor(c)
	initDashboard(c)
	initDatabase(c)
	initRedis(c)
	initPubsub(c)
	initServiceBus(c)
	initNotifier(c)
	initCors(c)
}

func initApp(c *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if p, ok := envInt("APP_PORT"); ok {
		c.App.Port = p
	} else if p, ok := envInt("PORT"); ok {
		c.App.Port = p
	}
	if c.App.Port == 0 {
		c.App.Port = 10001
	}
	if v, ok := envBool("TLS_ENABLED"); ok {
		c.App.TLSEnabled = v
	}
	c.App.TLSCertFile = getConfigValue(c.App.TLSCertFile, "TLS_CERT_FILE", "")
	c.App.TLSKeyFile = getConfigValue(c.App.TLSKeyFile, "TLS_KEY_FILE", "")
}

func initCache(c *Config) {
	c.Cache.Backend = strings.ToLower(getConfigValue(c.Cache.Backend, "CACHE_BACKEND", CacheBackendFile))
	c.Cache.Dir = getConfigValue(c.Cache.Dir, "CACHE_DIR", "data")
}

func initExtractor(c *Config) {
	c.Extractor.Mode = strings.ToLower(getConfigValue(c.Extractor.Mode, "EXTRACTOR_MODE", ExtractorModeYtdlp))
	c.Extractor.YtdlpPath = getConfigValue(c.Extractor.YtdlpPath, "YTDLP_PATH", "yt-dlp")
	c.Extractor.APIKey = getConfigValue(c.Extractor.APIKey, "YOUTUBE_API_KEY", "")
	c.Extractor.AccessToken = getConfigValue(c.Extractor.AccessToken, "YOUTUBE_ACCESS_TOKEN", "")
	if t, ok := envInt("EXTRACTOR_TIMEOUT_SECONDS"); ok {
		c.Extractor.TimeoutSeconds = t
	}
	if c.Extractor.TimeoutSeconds <= 0 {
		c.Extractor.TimeoutSeconds = 120
	}
	if v := os.Getenv("EXTRACTOR_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil && rps >= 0 {
			c.Extractor.RequestsPerSecond = rps
		}
	}
}

func initDashboard(c *Config) {
	c.Dashboard.DefaultChannel = getConfigValue(c.Dashboard.DefaultChannel, "DEFAULT_CHANNEL", "")
	if n, ok := envInt("MAX_RESULTS"); ok {
		c.Dashboard.MaxResults = n
	}
	if c.Dashboard.MaxResults <= 0 {
		c.Dashboard.MaxResults = 10
	}
	if n, ok := envInt("MAX_RESULTS_CAP"); ok {
		c.Dashboard.MaxResultsCap = n
	}
	if c.Dashboard.MaxResultsCap <= 0 {
		c.Dashboard.MaxResultsCap = 50
	}
	if c.Dashboard.MaxResultsCap < c.Dashboard.MaxResults {
		c.Dashboard.MaxResultsCap = c.Dashboard.MaxResults
	}
	if n, ok := envInt("TOP_N"); ok {
		c.Dashboard.TopN = n
	}
	if c.Dashboard.TopN <= 0 {
		c.Dashboard.TopN = 10
	}
}

func initDatabase(c *Config) {
	c.Database.Psql.Name = getConfigValue(c.Database.Psql.Name, "DB_NAME", "")
	c.Database.Psql.Host = getConfigValue(c.Database.Psql.Host, "DB_HOST", "localhost")
	c.Database.Psql.Port = getConfigValue(c.Database.Psql.Port, "DB_PORT", "5432")
	c.Database.Psql.User = getConfigValue(c.Database.Psql.User, "DB_USER", "")
	c.Database.Psql.Password = getConfigValue(c.Database.Psql.Password, "DB_PASSWORD", "")
	c.Database.Psql.SSLMode = getConfigValue(c.Database.Psql.SSLMode, "DB_SSLMODE", "disable")

	c.Database.Mssql.Name = getConfigValue(c.Database.Mssql.Name, "MSSQL_NAME", "")
	c.Database.Mssql.Host = getConfigValue(c.Database.Mssql.Host, "MSSQL_HOST", "localhost")
	c.Database.Mssql.Port = getConfigValue(c.Database.Mssql.Port, "MSSQL_PORT", "1433")
	c.Database.Mssql.User = getConfigValue(c.Database.Mssql.User, "MSSQL_USER", "")
	c.Database.Mssql.Password = getConfigValue(c.Database.Mssql.Password, "MSSQL_PASSWORD", "")

	c.Database.Mongo.Name = getConfigValue(c.Database.Mongo.Name, "MONGO_NAME", "channel_insights")
	c.Database.Mongo.Host = getConfigValue(c.Database.Mongo.Host, "MONGO_HOST", "localhost")
	c.Database.Mongo.Port = getConfigValue(c.Database.Mongo.Port, "MONGO_PORT", "27017")
	c.Database.Mongo.User = getConfigValue(c.Database.Mongo.User, "MONGO_USER", "")
	c.Database.Mongo.Password = getConfigValue(c.Database.Mongo.Password, "MONGO_PASSWORD", "")
}

func initRedis(c *Config) {
	c.RedisClient.Host = getConfigValue(c.RedisClient.Host, "REDIS_HOST", "localhost")
	c.RedisClient.Port = getConfigValue(c.RedisClient.Port, "REDIS_PORT", "6379")
	c.RedisClient.Username = getConfigValue(c.RedisClient.Username, "REDIS_USERNAME", "")
	c.RedisClient.Password = getConfigValue(c.RedisClient.Password, "REDIS_PASSWORD", "")
}

func initPubsub(c *Config) {
	c.Pubsub.ProjectID = getConfigValue(c.Pubsub.ProjectID, "PUBSUB_PROJECT_ID", "")
	c.Pubsub.Topic = getConfigValue(c.Pubsub.Topic, "PUBSUB_TOPIC", "channel-refreshed")
}

func initServiceBus(c *Config) {
	c.ServiceBus.Namespace = getConfigValue(c.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE", "")
	c.ServiceBus.ConnectionString = getConfigValue(c.ServiceBus.ConnectionString, "SERVICEBUS_CONNECTION_STRING", "")
	c.ServiceBus.Queue = getConfigValue(c.ServiceBus.Queue, "SERVICEBUS_QUEUE", "channel-refreshed")
}

// initNotifier picks Pub/Sub, then Service Bus, when no notifier is named explicitly
func initNotifier(c *Config) {
	c.Notifier = strings.ToLower(getConfigValue(c.Notifier, "NOTIFIER", ""))
	if c.Notifier != "" {
		return
	}
	switch {
	case c.Pubsub.ProjectID != "":
		c.Notifier = NotifierPubsub
	case c.ServiceBus.Namespace != "" || c.ServiceBus.ConnectionString != "":
		c.Notifier = NotifierServiceBus
	default:
		c.Notifier = NotifierNone
	}
}

func initCors(c *Config) {
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		c.Cors.AllowOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Cors.AllowOrigins = append(c.Cors.AllowOrigins, origin)
			}
		}
	}
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"key": key, "value": v}).Warn("Ignoring non-numeric environment override")
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True":
		return true, true
	case "0", "false", "FALSE", "False":
		return false, true
	}
	return false, false
}
