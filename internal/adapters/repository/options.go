package repository

// Default sqlite configuration constants.
const (
	defaultBusyTimeoutMS = 5000
)

type sqliteConfig struct {
	busyTimeoutMS int
}

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*sqliteConfig)

// WithBusyTimeout sets the sqlite busy timeout in milliseconds.
func WithBusyTimeout(ms int) SQLiteOption {
	return func(c *sqliteConfig) {
		if ms > 0 {
			c.busyTimeoutMS = ms
		}
	}
}
