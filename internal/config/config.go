// config.go
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	MongoDBName string
	RabbitURL   string
	RedisAddr   string
	RedisPass   string

	JWTSecret string

	MailgunDomain string
	MailgunAPIKey string
	EmailFrom     string

	LogLevel string
	Port     string
}

func Load() *Config {
	// .env es opcional; en contenedores las variables llegan del entorno
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("No se pudo leer .env: %v", err)
	}

	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "samarithanna"),
		RabbitURL:     getEnv("RABBIT_URL", "amqp://localhost"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPass:     getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		MailgunDomain: getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getEnv("MAILGUN_API_KEY", ""),
		EmailFrom:     getEnv("EMAIL_FROM", "Samarit-Hanna <hola@samarithanna.com>"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnv("PORT", "5000"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
