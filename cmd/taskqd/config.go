package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	tq "github.com/azargarov/taskqueue"
)

const envPrefix = "TASKQ_"

// Config holds the daemon settings. Every field can be set through a
// TASKQ_* environment variable and overridden by a flag.
type Config struct {
	Addr          string
	RetryAttempts int
	RetryInitial  time.Duration
	RetryMax      time.Duration
	ItemTimeout   time.Duration
	PinCPU        int
	ShutdownWait  time.Duration
}

// LoadConfig reads defaults from the environment.
func LoadConfig() Config {
	return Config{
		Addr:          getString(envPrefix+"ADDR", ":8080"),
		RetryAttempts: getInt(envPrefix+"RETRY_ATTEMPTS", 1),
		RetryInitial:  getDuration(envPrefix+"RETRY_INITIAL", 200*time.Millisecond),
		RetryMax:      getDuration(envPrefix+"RETRY_MAX", 5*time.Second),
		ItemTimeout:   getDuration(envPrefix+"ITEM_TIMEOUT", 0),
		PinCPU:        getInt(envPrefix+"PIN_CPU", -1),
		ShutdownWait:  getDuration(envPrefix+"SHUTDOWN_WAIT", 10*time.Second),
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("retry attempts must be greater than 0")
	}
	if c.RetryMax < c.RetryInitial {
		return fmt.Errorf("retry max (%v) must not be below retry initial (%v)", c.RetryMax, c.RetryInitial)
	}
	if c.ItemTimeout < 0 {
		return fmt.Errorf("item timeout must not be negative")
	}
	if c.ShutdownWait < time.Second {
		return fmt.Errorf("shutdown wait must be at least 1 second")
	}
	return nil
}

// DispatcherOptions maps the config onto the dispatcher.
func (c Config) DispatcherOptions() tq.DispatcherOptions {
	return tq.DispatcherOptions{
		Retry: tq.RetryPolicy{
			Attempts: c.RetryAttempts,
			Initial:  c.RetryInitial,
			Max:      c.RetryMax,
		},
		ItemTimeout: c.ItemTimeout,
		PinCPU:      c.PinCPU >= 0,
		CPU:         c.PinCPU,
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid value for %s: %s. Using default: %d\n", key, v, def)
		return def
	}
	return i
}

// getDuration accepts plain seconds or a time.ParseDuration string.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid duration for %s: %s. Using default: %v\n", key, v, def)
		return def
	}
	return d
}
