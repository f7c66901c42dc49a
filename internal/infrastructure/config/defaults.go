package config

import "time"

// defaults registers every key with viper, so AutomaticEnv can override keys that
// config.toml leaves out
var defaults = map[string]any{
	"app.name": "erp-posting",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "erp",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,
	"database.slow_threshold":     200 * time.Millisecond,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout": 15 * time.Second,
	// outlives posting.transaction_timeout
	"http.write_timeout":    60 * time.Second,
	"http.idle_timeout":     60 * time.Second,
	"http.max_header_bytes": 1 << 20,
	"http.max_body_size":    int64(10 << 20),
	"http.trusted_proxies":  []string{},

	"posting.transaction_timeout":    30 * time.Second,
	"posting.max_retries":            2,
	"posting.retry_initial_interval": 50 * time.Millisecond,
	"posting.retry_max_interval":     500 * time.Millisecond,
	"posting.isolation_level":        IsolationReadCommitted,

	"outbox.enabled":           true,
	"outbox.batch_size":        100,
	"outbox.poll_interval":     5 * time.Second,
	"outbox.max_attempts":      5,
	"outbox.lock_ttl":          30 * time.Second,
	"outbox.cleanup_retention": 7 * 24 * time.Hour,

	"notification.throttle_window": time.Hour,

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "erp-posting",
	"telemetry.insecure":           false,
	"telemetry.metrics_interval":   15 * time.Second,
}
