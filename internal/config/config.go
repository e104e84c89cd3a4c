package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/keya254/smart-serve/pkg/utils"

	"github.com/joho/godotenv"
)

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// DSN returns the lib/pq keyword/value connection string.
func (c DBConfig) DSN() string {
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.Name + " sslmode=" + c.SSLMode
}

type Config struct {
	Port               string
	DB                 DBConfig
	SeedOnStart        bool
	CORSAllowedOrigins []string
	AMQPURL            string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration
}

var defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	shutdown, err := utils.GetenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT: " + err.Error())
	}

	origins := utils.SplitCSV(utils.Getenv("CORS_ALLOWED_ORIGINS", ""))
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}

	return &Config{
		Port: utils.Getenv("PORT", "8080"),
		DB: DBConfig{
			Host:        utils.Getenv("DB_HOST", "localhost"),
			Port:        utils.Getenv("DB_PORT", "5432"),
			User:        utils.Getenv("DB_USER", "smartserve"),
			Password:    utils.Getenv("DB_PASSWORD", "smartserve"),
			Name:        utils.Getenv("DB_NAME", "smartserve"),
			SSLMode:     utils.Getenv("DB_SSLMODE", "disable"),
			AutoMigrate: utils.GetenvBool("DB_AUTO_MIGRATE", true),
		},
		SeedOnStart:        utils.GetenvBool("SEED_ON_START", true),
		CORSAllowedOrigins: origins,
		AMQPURL:            utils.Getenv("AMQP_URL", ""),
		LogLevel:           utils.Getenv("LOG_LEVEL", "info"),
		LogFormat:          utils.Getenv("LOG_FORMAT", "console"),
		ShutdownTimeout:    shutdown,
	}, nil
}
