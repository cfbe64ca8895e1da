package fsxlocal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
)

// LocalFileSystem implementa fsx.FileSystem sobre un directorio local.
// Pensado para desarrollo; en producción se usa fsxs3.
type LocalFileSystem struct {
	basePath string
	baseURL  string
}

func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, errx.Wrap(err, "invalid base path", errx.TypeInternal)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errx.Wrap(err, "failed to create base directory", errx.TypeInternal)
	}
	return &LocalFileSystem{basePath: abs, baseURL: "file://" + abs}, nil
}

func (l *LocalFileSystem) GetBasePath() string {
	return l.basePath
}

// resolve valida que el path no escape del directorio base
func (l *LocalFileSystem) resolve(path string) (string, error) {
	full := filepath.Join(l.basePath, filepath.Clean("/"+path))
	if !strings.HasPrefix(full, l.basePath) {
		return "", errx.New("path escapes base directory", errx.TypeValidation).
			WithDetail("path", path)
	}
	return full, nil
}

func (l *LocalFileSystem) WriteFile(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	full, err := l.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", errx.Wrap(err, "failed to create directory", errx.TypeInternal)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", errx.Wrap(err, "failed to write file", errx.TypeInternal).
			WithDetail("path", path)
	}
	return path, nil
}

func (l *LocalFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errx.New("file not found", errx.TypeNotFound).WithDetail("path", path)
		}
		return nil, errx.Wrap(err, "failed to read file", errx.TypeInternal)
	}
	return data, nil
}

func (l *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errx.Wrap(err, "failed to stat file", errx.TypeInternal)
}

func (l *LocalFileSystem) Delete(ctx context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return errx.Wrap(err, "failed to delete file", errx.TypeInternal)
	}
	return nil
}

// SignedURL en local no firma nada: retorna una URL file:// con una marca de
// expiración informativa. Solo para desarrollo.
func (l *LocalFileSystem) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if _, err := l.resolve(path); err != nil {
		return "", err
	}
	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", l.baseURL, strings.TrimPrefix(path, "/"), expires), nil
}
