// pkg/config/storage.go
package config

import "time"

// StorageConfig define dónde se guardan los CVs de candidatos
type StorageConfig struct {
	Mode         string // "local" o "s3"
	LocalDir     string
	S3Bucket     string
	S3Region     string
	S3Prefix     string
	MaxCVSize    int64
	SignedURLTTL time.Duration
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Mode:         getEnv("STORAGE_MODE", "local"),
		LocalDir:     getEnv("UPLOAD_DIR", "./uploads"),
		S3Bucket:     getEnv("AWS_BUCKET", "convocatoria-cvs"),
		S3Region:     getEnv("AWS_REGION", "us-east-1"),
		S3Prefix:     getEnv("AWS_PREFIX", "cvs"),
		MaxCVSize:    int64(getEnvInt("MAX_CV_SIZE_BYTES", 10*1024*1024)),
		SignedURLTTL: getEnvDuration("CV_SIGNED_URL_TTL", 5*time.Minute),
	}
}
