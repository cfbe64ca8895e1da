package fsx

import (
	"context"
	"time"
)

// FileReader lee archivos de un almacenamiento
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FileSystem abstrae el almacenamiento de archivos (local o S3).
// Los paths son relativos al bucket/directorio base configurado.
type FileSystem interface {
	FileReader

	// WriteFile guarda el contenido y retorna el path final almacenado
	WriteFile(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error

	// SignedURL genera una URL temporal de lectura para el path dado
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
