// Package logger writes structured JSON event logs to stdout and a rotating
// file.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Level string

const (
	LevelInfo     Level = "INFO"
	LevelWarn     Level = "WARN"
	LevelError    Level = "ERROR"
	LevelSecurity Level = "SECURITY"
)

const (
	EventServiceStartup    = "SERVICE_STARTUP"
	EventServiceShutdown   = "SERVICE_SHUTDOWN"
	EventDBConnection      = "DB_CONNECTION"
	EventDBError           = "DB_ERROR"
	EventLoginSuccess      = "LOGIN_SUCCESS"
	EventLoginFailure      = "LOGIN_FAILURE"
	EventInvalidToken      = "INVALID_TOKEN"
	EventRateLimited       = "RATE_LIMITED"
	EventValidationFailure = "VALIDATION_FAILURE"
	EventReleaseState      = "RELEASE_STATE_CHANGE"
	EventSmartLink         = "SMARTLINK_CHANGE"
	EventDraftAutosave     = "DRAFT_AUTOSAVE"
	EventRemoteError       = "REMOTE_ERROR"
	EventGeneral           = "GENERAL"
)

type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     Level          `json:"level"`
	Service   string         `json:"service"`
	EventType string         `json:"event_type"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

type Config struct {
	ServiceName string
	Environment string
	// LogFilePath enables the rotating file sink when set.
	LogFilePath string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

type Logger struct {
	config Config
	writer io.Writer
	mu     sync.Mutex
}

var sensitiveFields = map[string]bool{
	"password":      true,
	"new_password":  true,
	"newpassword":   true,
	"token":         true,
	"access_token":  true,
	"refresh_token": true,
	"secret":        true,
	"client_secret": true,
	"authorization": true,
	"cookie":        true,
	"jwt":           true,
	"api_key":       true,
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

var (
	instance   *Logger
	instanceMu sync.Mutex
)

// Init replaces the process logger. Call it once from main.
func Init(cfg Config) {
	l := New(cfg)
	instanceMu.Lock()
	instance = l
	instanceMu.Unlock()
}

func Get() *Logger {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = &Logger{
			config: Config{ServiceName: "olprod", Environment: "development"},
			writer: os.Stdout,
		}
	}
	return instance
}

func New(cfg Config) *Logger {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "olprod"
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 30
	}

	writers := []io.Writer{os.Stdout}
	if cfg.LogFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: cannot create log directory for %s: %v, using stdout only\n", cfg.LogFilePath, err)
		} else {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.LogFilePath,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   true,
			})
		}
	}
	return &Logger{config: cfg, writer: io.MultiWriter(writers...)}
}

// NewWithWriter builds a logger over an arbitrary sink, mostly for tests.
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "olprod"
	}
	return &Logger{config: cfg, writer: w}
}

func (l *Logger) log(level Level, eventType, message string, details map[string]any) {
	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.config.ServiceName,
		EventType: eventType,
		Message:   sanitizeString(message),
		Details:   sanitizeDetails(details),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to marshal log entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(append(data, '\n'))
}

func (l *Logger) Info(eventType, message string, details map[string]any) {
	l.log(LevelInfo, eventType, message, details)
}

func (l *Logger) Warn(eventType, message string, details map[string]any) {
	l.log(LevelWarn, eventType, message, details)
}

func (l *Logger) Error(eventType, message string, details map[string]any) {
	l.log(LevelError, eventType, message, details)
}

func (l *Logger) Security(eventType, message string, details map[string]any) {
	l.log(LevelSecurity, eventType, message, details)
}

func (l *Logger) Fatal(eventType, message string, details map[string]any) {
	l.log(LevelError, eventType, message, details)
	os.Exit(1)
}

func Info(eventType, message string, details map[string]any) {
	Get().Info(eventType, message, details)
}

func Warn(eventType, message string, details map[string]any) {
	Get().Warn(eventType, message, details)
}

func Error(eventType, message string, details map[string]any) {
	Get().Error(eventType, message, details)
}

func Security(eventType, message string, details map[string]any) {
	Get().Security(eventType, message, details)
}

func Fatal(eventType, message string, details map[string]any) {
	Get().Fatal(eventType, message, details)
}

// Fields turns alternating key/value arguments into a details map.
func Fields(kv ...any) map[string]any {
	details := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		if err, ok := kv[i+1].(error); ok {
			details[key] = err.Error()
			continue
		}
		details[key] = kv[i+1]
	}
	return details
}

func sanitizeDetails(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		if sensitiveFields[strings.ToLower(k)] {
			out[k] = "[REDACTED]"
			continue
		}
		switch val := v.(type) {
		case string:
			out[k] = sanitizeString(val)
		case map[string]any:
			out[k] = sanitizeDetails(val)
		default:
			out[k] = v
		}
	}
	return out
}

func sanitizeString(s string) string {
	return emailRegex.ReplaceAllStringFunc(s, maskEmail)
}

func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "[REDACTED_EMAIL]"
	}
	if len(local) <= 2 {
		return "**@" + domain
	}
	return local[:2] + "***@" + domain
}
