package util

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	projectRootDir     string
	projectRootDirOnce sync.Once
)

// GetEnv returns the value of the ENV variable key or defaultVal if it is not set.
func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}

	return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
	strVal := GetEnv(key, "")

	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}

	return defaultVal
}

func GetEnvAsUint64(key string, defaultVal uint64) uint64 {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseUint(strVal, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}

	return defaultVal
}

func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	strVal := GetEnv(key, "")

	if val, err := time.ParseDuration(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsStringArr splits the ENV value by separator, trims every part and drops empty ones.
func GetEnvAsStringArr(key string, defaultVal []string, separator ...string) []string {
	strVal := GetEnv(key, "")

	if len(strVal) == 0 {
		return defaultVal
	}

	sep := ","
	if len(separator) >= 1 {
		sep = separator[0]
	}

	return SplitAndTrim(strVal, sep)
}

func GetEnvAsUint64Arr(key string, defaultVal []uint64, separator ...string) []uint64 {
	parts := GetEnvAsStringArr(key, nil, separator...)
	if len(parts) == 0 {
		return defaultVal
	}

	res := make([]uint64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			log.Warn().Str("key", key).Str("value", part).Msg("Ignoring invalid uint64 in ENV array")
			continue
		}
		res = append(res, val)
	}

	return res
}

// SplitAndTrim 按分隔符拆分并去除空白项
func SplitAndTrim(s string, sep string) []string {
	parts := strings.Split(s, sep)
	res := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			res = append(res, part)
		}
	}

	return res
}

// RunningInTest reports whether the current binary is a "go test" binary.
func RunningInTest() bool {
	return strings.HasSuffix(os.Args[0], ".test")
}

// GetProjectRootDir returns PROJECT_ROOT_DIR or, if unset, the working directory.
func GetProjectRootDir() string {
	projectRootDirOnce.Do(func() {
		if dir, ok := os.LookupEnv("PROJECT_ROOT_DIR"); ok {
			projectRootDir = dir
			return
		}

		dir, err := os.Getwd()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to resolve working directory, using '.'")
			dir = "."
		}
		projectRootDir = dir
	})

	return projectRootDir
}
