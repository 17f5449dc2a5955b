package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	endpoint         string
	dsn              string
	logLevel         string
	env              string
	authSecretKey    string
	tokenTTL         time.Duration
	unitPrice        int64
	currency         string
	jobWorkers       int
	jobQueueCapacity int
}

func generateRandomString(length int) string {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

// intFromEnv перекрывает значение флага переменной окружения, если она задана и корректна
func intFromEnv(name string, value *int) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		log.Printf("WARNING: %s=%q is ignored, expected positive integer\n", name, raw)
		return
	}
	*value = parsed
}

func NewConfig() Config {
	var (
		endpoint         string
		dsn              string
		logLevel         string
		env              string
		authSecretKey    string
		unitPrice        int64
		currency         string
		jobWorkers       int
		jobQueueCapacity int
	)

	flag.StringVar(&endpoint, "a", "localhost:8090", "address and port to run server")
	flag.StringVar(&dsn, "d", "", "data source name for database connection")
	flag.Int64Var(&unitPrice, "p", 1000, "price per kilogram in minor currency units")
	flag.StringVar(&currency, "c", "KRW", "currency of new orders")
	flag.Parse()

	if address := os.Getenv("RUN_ADDRESS"); address != "" {
		endpoint = address
	}

	if d := os.Getenv("DATABASE_URI"); d != "" {
		dsn = d
	}

	if p := os.Getenv("UNIT_PRICE"); p != "" {
		if parsed, err := strconv.ParseInt(p, 10, 64); err == nil && parsed > 0 {
			unitPrice = parsed
		} else {
			log.Printf("WARNING: UNIT_PRICE=%q is ignored, expected positive integer\n", p)
		}
	}

	if c := os.Getenv("CURRENCY"); c != "" {
		currency = c
	}

	if l := os.Getenv("LOG_LEVEL"); l != "" {
		logLevel = l
	} else {
		logLevel = "error"
	}

	if e := os.Getenv("ENV"); e != "" {
		env = e
	} else {
		env = "production"
	}

	if secret := os.Getenv("AUTH_SECRET_KEY"); secret != "" {
		authSecretKey = secret
	} else {
		if env == "production" {
			authSecretKey = generateRandomString(32)
			log.Printf("WARNING: AUTH_SECRET_KEY has to be defined for production environment\n")
		} else {
			authSecretKey = "development-key"
		}
	}

	jobWorkers = 2
	jobQueueCapacity = 100
	intFromEnv("JOB_WORKERS", &jobWorkers)
	intFromEnv("JOB_QUEUE_CAPACITY", &jobQueueCapacity)

	return Config{
		endpoint:         endpoint,
		dsn:              dsn,
		logLevel:         logLevel,
		env:              env,
		authSecretKey:    authSecretKey,
		tokenTTL:         24 * time.Hour,
		unitPrice:        unitPrice,
		currency:         currency,
		jobWorkers:       jobWorkers,
		jobQueueCapacity: jobQueueCapacity,
	}
}
