package utils

import (
	"os"
	"strconv"

	"github.com/segmentio/ksuid"

	"github.com/vexport/vexport/gologger"
)

var logger = gologger.NewLogger()

func GetEnvOrDefault(env, defaultVal string) string {
	e := os.Getenv(env)
	if e == "" {
		return defaultVal
	}
	return e
}

func GetEnvOrDefaultInt(env string, defaultVal int64) int64 {
	e := os.Getenv(env)
	if e == "" {
		return defaultVal
	}
	intVal, err := strconv.ParseInt(e, 10, 64)
	if err != nil {
		logger.Error().Str("env", env).Msg("failed to parse env var as int")
		os.Exit(1)
	}
	return intVal
}

// GenKSortedID generates a k-sorted ID with the given prefix, used to tag
// every extraction run in the logs.
func GenKSortedID(prefix string) string {
	return prefix + ksuid.New().String()
}

func Ptr[T any](s T) *T {
	return &s
}

func Deref[T any](ref *T, fallback T) T {
	if ref == nil {
		return fallback
	}
	return *ref
}
