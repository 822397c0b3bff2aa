package config

import (
	"flag"
	"os"
)

type Config struct {
	RunAddress    string
	DatabaseDSN   string
	RedisAddr     string
	JWTSecret     string
	AuditLogPath  string
	AdminPassword string
}

func New() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "server address and port")
	flag.StringVar(&cfg.DatabaseDSN, "d", "root:root@tcp(localhost:3306)/pizzeria?parseTime=true", "mysql DSN")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address for the stock gate (empty disables it)")
	flag.StringVar(&cfg.JWTSecret, "s", "super-secret-jwt-key", "jwt signing key")
	flag.StringVar(&cfg.AuditLogPath, "l", "audit.log", "audit event log path")
	flag.StringVar(&cfg.AdminPassword, "p", "admin_password", "bootstrap admin password")
	flag.Parse()

	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AuditLogPath = getEnv("AUDIT_LOG", cfg.AuditLogPath)
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.AdminPassword)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
