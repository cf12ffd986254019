package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	GatewayAmploPay    = "amplopay"
	GatewayMercadoPago = "mercadopago"
)

type AmploPay struct {
	BaseURL     string
	PublicKey   string
	SecretKey   string
	ChargePath  string
	StatusPath  string
	CallbackURL string
}

type MercadoPago struct {
	AccessToken     string
	NotificationURL string
}

// Config is built once in main and handed to every component explicitly.
// Nothing below cmd/ reads credentials from the environment.
type Config struct {
	Port                 int
	Gateway              string
	GatewayMock          bool
	GatewayTimeout       time.Duration
	PollInterval         time.Duration
	DefaultPhone         string
	AmploPay             AmploPay
	MercadoPago          MercadoPago
	AWSRegion            string
	AWSAccessKeyID       string
	AWSSecretAccessKey   string
	DynamoDBEndpoint     string
	ChargesTable         string
	DatabaseURL          string
	RabbitURL            string
	ChargeEventsExchange string
	RateLimitRPS         float64
	RateLimitBurst       int
	ShutdownGracePeriod  time.Duration
}

func Load() Config {
	return Config{
		Port:           parseInt("PORT", 3001),
		Gateway:        strings.ToLower(getEnv("PIX_GATEWAY", GatewayAmploPay)),
		GatewayMock:    parseBool("PAYMENT_GATEWAY_MOCK") || parseBool("AMPLOPAY_MOCK"),
		GatewayTimeout: parseDuration("PIX_GATEWAY_TIMEOUT", 15*time.Second),
		PollInterval:   parseDuration("PIX_POLL_INTERVAL", 5*time.Second),
		DefaultPhone:   getEnv("PIX_DEFAULT_PHONE", "+5500000000000"),
		AmploPay: AmploPay{
			BaseURL:     strings.TrimRight(getEnv("AMPLOPAY_BASE_URL", "https://app.amplopay.com/api/v1"), "/"),
			PublicKey:   os.Getenv("AMPLOPAY_PUBLIC_KEY"),
			SecretKey:   os.Getenv("AMPLOPAY_SECRET_KEY"),
			ChargePath:  getEnv("AMPLOPAY_CHARGE_PATH", "/gateway/pix/receive"),
			StatusPath:  getEnv("AMPLOPAY_STATUS_PATH", "/gateway/transactions"),
			CallbackURL: getEnv("AMPLOPAY_CALLBACK_URL", "https://nexus-store.com/webhook/amplopay"),
		},
		MercadoPago: MercadoPago{
			AccessToken:     os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
			NotificationURL: os.Getenv("MERCADOPAGO_NOTIFICATION_URL"),
		},
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:       os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		DynamoDBEndpoint:     os.Getenv("DYNAMODB_ENDPOINT"),
		ChargesTable:         getEnv("CHARGES_TABLE", "pix_charges"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RabbitURL:            os.Getenv("RABBIT_URL"),
		ChargeEventsExchange: getEnv("CHARGE_EVENTS_EXCHANGE", "pix.charges"),
		RateLimitRPS:         parseFloat("PIX_RATE_LIMIT_RPS", 1),
		RateLimitBurst:       parseInt("PIX_RATE_LIMIT_BURST", 5),
		ShutdownGracePeriod:  parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// MaskSecret keeps the first four characters so operators can tell keys apart.
func MaskSecret(v string) string {
	if v == "" {
		return "<unset>"
	}
	if len(v) <= 4 {
		return "****"
	}
	return v[:4] + "****"
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if raw, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func parseInt(key string, def int) int {
	if raw, ok := os.LookupEnv(key); ok {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}

func parseFloat(key string, def float64) float64 {
	if raw, ok := os.LookupEnv(key); ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return def
}

func parseBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}
