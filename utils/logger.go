/*
 * Copyright 2025 marlowe-io.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package utils holds shared helpers: a registry of named logrus loggers
// and environment variable accessors with defaults.
package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is an alias so callers do not import logrus directly.
type Logger = logrus.Logger

var (
	loggerRegistryMu sync.RWMutex
	loggerRegistry   = map[string]*logrus.Logger{}
	defaultLevel     = parseLevel(EnvDefaultString("LOG_LEVEL", "info"))
)

type prefixFormatter struct {
	name string
}

func (f *prefixFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	ts := entry.Time.Format("2006-01-02 15:04:05.000")
	line := fmt.Sprintf("%s [%s] %-5s %s\n",
		ts, f.name, strings.ToUpper(entry.Level.String()), entry.Message)
	return []byte(line), nil
}

// NewLogger returns the named logger, creating and registering it on first
// use. Loggers write to stderr with a name-prefixed plain text format.
func NewLogger(name string) *logrus.Logger {
	loggerRegistryMu.RLock()
	l, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if ok {
		return l
	}

	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if l, ok = loggerRegistry[name]; ok {
		return l
	}
	l = logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(defaultLevel)
	l.SetFormatter(&prefixFormatter{name: name})
	loggerRegistry[name] = l
	return l
}

// SetLoggerLevel adjusts the level of the named logger, creating it if
// needed. Unknown level strings fall back to info.
func SetLoggerLevel(name, level string) {
	NewLogger(name).SetLevel(parseLevel(level))
}

func parseLevel(level string) logrus.Level {
	l, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

// EnvDefaultString returns the environment variable value or a default when
// unset or blank.
func EnvDefaultString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// EnvDefaultBool returns the environment variable parsed as a bool, or a
// default when unset or unparsable.
func EnvDefaultBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// EnvDefaultInt returns the environment variable parsed as an int, or a
// default when unset or unparsable.
func EnvDefaultInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
