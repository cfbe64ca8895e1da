package logx

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// Level define la severidad mínima que se escribe
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel atomic.Int32
	std          = log.New(os.Stdout, "", log.LstdFlags)
)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel fija el nivel global del logger
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return int32(l) >= currentLevel.Load()
}

func output(l Level, tag, msg string) {
	if !enabled(l) {
		return
	}
	std.Printf("%s %s", tag, msg)
}

func Debug(args ...any)            { output(LevelDebug, "DEBUG", fmt.Sprint(args...)) }
func Info(args ...any)             { output(LevelInfo, "INFO", fmt.Sprint(args...)) }
func Warn(args ...any)             { output(LevelWarn, "WARN", fmt.Sprint(args...)) }
func Error(args ...any)            { output(LevelError, "ERROR", fmt.Sprint(args...)) }
func Debugf(f string, args ...any) { output(LevelDebug, "DEBUG", fmt.Sprintf(f, args...)) }
func Infof(f string, args ...any)  { output(LevelInfo, "INFO", fmt.Sprintf(f, args...)) }
func Warnf(f string, args ...any)  { output(LevelWarn, "WARN", fmt.Sprintf(f, args...)) }
func Errorf(f string, args ...any) { output(LevelError, "ERROR", fmt.Sprintf(f, args...)) }

// Fatalf escribe el mensaje y termina el proceso
func Fatalf(f string, args ...any) {
	output(LevelError, "FATAL", fmt.Sprintf(f, args...))
	os.Exit(1)
}

// ============================================================================
// Structured fields
// ============================================================================

// Fields son pares clave-valor que acompañan a una entrada de log
type Fields map[string]any

// Entry es un logger con campos pre-asociados
type Entry struct {
	fields Fields
}

// WithFields crea una entrada con contexto estructurado
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

func (e *Entry) suffix() string {
	if len(e.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.fields[k])
	}
	return b.String()
}

func (e *Entry) Debugf(f string, args ...any) {
	output(LevelDebug, "DEBUG", fmt.Sprintf(f, args...)+e.suffix())
}

func (e *Entry) Infof(f string, args ...any) {
	output(LevelInfo, "INFO", fmt.Sprintf(f, args...)+e.suffix())
}

func (e *Entry) Warnf(f string, args ...any) {
	output(LevelWarn, "WARN", fmt.Sprintf(f, args...)+e.suffix())
}

func (e *Entry) Errorf(f string, args ...any) {
	output(LevelError, "ERROR", fmt.Sprintf(f, args...)+e.suffix())
}
