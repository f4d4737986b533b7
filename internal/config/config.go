package config

import "fmt"

// Config holds all cmv configuration.
type Config struct {
	Server ServerConfig
}

type ServerConfig struct {
	Bind string
	Port int
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38384,
		},
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
