package config

import (
	"time"

	"github.com/lshigami/attemptkeeper/internal/policy"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Database  Database
	Log       Log
	Scheduler Scheduler
	Admin     Admin
	Policy    *policy.Config
}

type Server struct {
	Port string
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string `json:"-"`
	Name     string
	SSLMode  string
	Path     string // sqlite file, ":memory:" allowed
}

type Log struct {
	Level  string
	Pretty bool
}

type Scheduler struct {
	Enabled         bool
	AbandonInterval time.Duration
	PurgeInterval   time.Duration
	ReconcileCron   string
}

type Admin struct {
	Token string `json:"-"`
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")

	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.Path = viper.GetString("DATABASE_PATH")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	config.Scheduler.Enabled = viper.GetBool("SCHEDULER_ENABLED")
	config.Scheduler.AbandonInterval = viper.GetDuration("SCHEDULER_ABANDON_INTERVAL")
	config.Scheduler.PurgeInterval = viper.GetDuration("SCHEDULER_PURGE_INTERVAL")
	config.Scheduler.ReconcileCron = viper.GetString("SCHEDULER_RECONCILE_CRON")

	config.Admin.Token = viper.GetString("ADMIN_TOKEN")

	config.Policy = policy.New(lookupEnv)

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_PATH", "data/attempts.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("SCHEDULER_ABANDON_INTERVAL", "15m")
	viper.SetDefault("SCHEDULER_PURGE_INTERVAL", "1h")
	viper.SetDefault("SCHEDULER_RECONCILE_CRON", "30 3 * * *")
}

// lookupEnv feeds policy overrides from the .env file or the environment.
func lookupEnv(key string) (string, bool) {
	if !viper.IsSet(key) {
		return "", false
	}
	return viper.GetString(key), true
}
