package config

import (
	"github.com/JaimeStill/compliance-reports/pkg/auth"
	"github.com/JaimeStill/compliance-reports/pkg/database"
	"github.com/JaimeStill/compliance-reports/pkg/keylock"
	"github.com/JaimeStill/compliance-reports/pkg/logging"
	"github.com/JaimeStill/compliance-reports/pkg/storage"
	"github.com/JaimeStill/compliance-reports/pkg/tracing"
)

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	SSLMode:         "DATABASE_SSL_MODE",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
}

var loggingEnv = &logging.Env{
	Level:  "LOGGING_LEVEL",
	Format: "LOGGING_FORMAT",
}

var storageEnv = &storage.Env{
	Backend:       "STORAGE_BACKEND",
	BasePath:      "STORAGE_BASE_PATH",
	MaxUploadSize: "STORAGE_MAX_UPLOAD_SIZE",
	S3Endpoint:    "STORAGE_S3_ENDPOINT",
	S3Region:      "STORAGE_S3_REGION",
	S3Bucket:      "STORAGE_S3_BUCKET",
	S3AccessKey:   "STORAGE_S3_ACCESS_KEY",
	S3SecretKey:   "STORAGE_S3_SECRET_KEY",
	S3UseSSL:      "STORAGE_S3_USE_SSL",
}

var authEnv = &auth.Env{
	Secret: "AUTH_SECRET",
	Cookie: "AUTH_COOKIE",
	Issuer: "AUTH_ISSUER",
}

var locksEnv = &keylock.Env{
	Backend:       "LOCKS_BACKEND",
	RedisAddr:     "LOCKS_REDIS_ADDR",
	RedisPassword: "LOCKS_REDIS_PASSWORD",
	RedisDB:       "LOCKS_REDIS_DB",
}

var tracingEnv = &tracing.Env{
	Endpoint:    "TRACING_ENDPOINT",
	Insecure:    "TRACING_INSECURE",
	SampleRatio: "TRACING_SAMPLE_RATIO",
}
