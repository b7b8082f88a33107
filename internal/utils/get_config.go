package utils

import (
	"os"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort     string `yaml:"APP_PORT"`
	AppURL      string `yaml:"APP_URL"`
	AppTimezone string `yaml:"APP_TIMEZONE"`
	SeedSample  bool   `yaml:"SEED_SAMPLE"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBPath     string `yaml:"DB_PATH"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Redis pub/sub for realtime fan-out across instances
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"REDIS_DB"`
	RedisChannel  string `yaml:"REDIS_CHANNEL"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// OAuth (Google ID tokens, RS256)
	OAuthGooglePublicKey string `yaml:"OAUTH_GOOGLE_PUBLIC_KEY"`
	OAuthGoogleAudience  string `yaml:"OAUTH_GOOGLE_AUDIENCE"`
	OAuthGoogleIssuer    string `yaml:"OAUTH_GOOGLE_ISSUER"`
}

var (
	config     Config
	configOnce sync.Once
)

func defaultConfig() Config {
	return Config{
		AppPort:           "8080",
		AppTimezone:       "America/New_York",
		SeedSample:        true,
		DBDriver:          "postgres",
		DBPath:            "./data/foodshare.db",
		RedisChannel:      "foodshare:pins",
		OAuthGoogleIssuer: "https://accounts.google.com",
	}
}

// LoadConfig reads .env, then config.yaml, then lets environment variables
// override individual keys. It only runs once per process.
func LoadConfig() {
	configOnce.Do(loadConfig)
}

func loadConfig() {
	config = defaultConfig()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("error reading .env file: %v", err)
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("error reading YAML file: %v", err)
		}
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Errorf("error parsing YAML file: %v", err)
	}

	overrideFromEnv(&config)
}

func overrideFromEnv(c *Config) {
	str := map[string]*string{
		"APP_PORT":                &c.AppPort,
		"APP_URL":                 &c.AppURL,
		"APP_TIMEZONE":            &c.AppTimezone,
		"DB_DRIVER":               &c.DBDriver,
		"DB_USER":                 &c.DBUser,
		"DB_NAME":                 &c.DBName,
		"DB_PASSWORD":             &c.DBPassword,
		"DB_PORT":                 &c.DBPort,
		"DB_HOST":                 &c.DBHost,
		"DB_PATH":                 &c.DBPath,
		"JWT_SECRET":              &c.JWTSecret,
		"REDIS_ADDR":              &c.RedisAddr,
		"REDIS_PASSWORD":          &c.RedisPassword,
		"REDIS_CHANNEL":           &c.RedisChannel,
		"SMTP_HOST":               &c.SMTPHost,
		"SMTP_PORT":               &c.SMTPPort,
		"SMTP_SENDER_NAME":        &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":         &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD":      &c.SMTPAuthPassword,
		"AWS_S3_BUCKET":           &c.AWSS3Bucket,
		"AWS_S3_REGION":           &c.AWSS3Region,
		"AWS_ACCESS_KEY":          &c.AWSAccessKey,
		"AWS_SECRET_KEY":          &c.AWSSecretKey,
		"OAUTH_GOOGLE_PUBLIC_KEY": &c.OAuthGooglePublicKey,
		"OAUTH_GOOGLE_AUDIENCE":   &c.OAuthGoogleAudience,
		"OAUTH_GOOGLE_ISSUER":     &c.OAuthGoogleIssuer,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v, ok := os.LookupEnv("SEED_SAMPLE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SeedSample = b
		}
	}
}

func getBoolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func GetConfig(key string) string {
	LoadConfig()
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "APP_TIMEZONE":
		return config.AppTimezone
	case "SEED_SAMPLE":
		return getBoolString(config.SeedSample)
	case "DB_DRIVER":
		return config.DBDriver
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_PATH":
		return config.DBPath
	case "JWT_SECRET":
		return config.JWTSecret
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "REDIS_DB":
		return strconv.Itoa(config.RedisDB)
	case "REDIS_CHANNEL":
		return config.RedisChannel
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "OAUTH_GOOGLE_PUBLIC_KEY":
		return config.OAuthGooglePublicKey
	case "OAUTH_GOOGLE_AUDIENCE":
		return config.OAuthGoogleAudience
	case "OAUTH_GOOGLE_ISSUER":
		return config.OAuthGoogleIssuer
	default:
		return ""
	}
}
