package configprovider

import (
	"activos/providers"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type EnvConfigProvider struct {
	dbUser            string
	dbPassword        string
	dbHost            string
	dbPort            string
	dbName            string
	serverPort        string
	redisAddr         string
	schedulerInterval time.Duration
}

func NewConfigProvider() providers.ConfigProvider {
	return &EnvConfigProvider{}
}

func (e *EnvConfigProvider) LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not loaded, using system envs")
	}

	e.dbUser = os.Getenv("DB_USER")
	e.dbPassword = os.Getenv("DB_PASSWORD")
	e.dbHost = os.Getenv("DB_HOST")
	e.dbPort = os.Getenv("DB_PORT")
	e.dbName = os.Getenv("DB_NAME")
	e.serverPort = os.Getenv("SERVER_PORT")
	e.redisAddr = os.Getenv("REDIS_ADDR")

	e.schedulerInterval = 24 * time.Hour
	if val := os.Getenv("SCHEDULER_INTERVAL"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("Warning: invalid SCHEDULER_INTERVAL %q, keeping 24h", val)
		} else {
			e.schedulerInterval = parsed
		}
	}
	return nil
}

func (e *EnvConfigProvider) GetServerPort() string {
	return e.serverPort
}

func (e *EnvConfigProvider) GetRedisAddr() string {
	return e.redisAddr
}

func (e *EnvConfigProvider) GetSchedulerInterval() time.Duration {
	return e.schedulerInterval
}

func (e *EnvConfigProvider) GetDatabaseString() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		e.dbUser, e.dbPassword, e.dbHost, e.dbPort, e.dbName)
}
