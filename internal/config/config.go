package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	SocketPort string    `yaml:"socket-port" env:"PORT" env-default:"6615"`
	Redis      Redis     `yaml:"redis"`
	Game       Game      `yaml:"game"`
	WebSocket  WebSocket `yaml:"websocket"`
}

// Redis is only used to publish lifecycle events; the server runs without it.
type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"tictactoe:events"`
}

type Game struct {
	MoveErrorReply bool `yaml:"move-error-reply" env:"GAME_MOVE_ERROR_REPLY" env-default:"false"`
}

type WebSocket struct {
	MaxMessageSize int64 `yaml:"max-message-size" env:"WS_MAX_MESSAGE_SIZE" env-default:"4096"`
	SendBuffer     int   `yaml:"send-buffer" env:"WS_SEND_BUFFER" env-default:"16"`
}

// Load - reads the config file at path, falling back to the environment and
// defaults when the file does not exist.
func Load(path string) (*Config, error) {
	config := &Config{}

	err := cleanenv.ReadConfig(path, config)
	if errors.Is(err, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(config)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	return config, nil
}

// MustLoad - like Load but panics on failure.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
