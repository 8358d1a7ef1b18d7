package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env-default:"9090"`
	SocketPort        string `yaml:"socket-port" env-default:"8080"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env-default:"./minigames.db"`
	Bot               Bot    `yaml:"bot"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// Bot - artificial thinking delays of the computer opponent, in milliseconds.
type Bot struct {
	EasyDelayMS   int `yaml:"easy-delay-ms" env-default:"500"`
	MediumDelayMS int `yaml:"medium-delay-ms" env-default:"800"`
	HardDelayMS   int `yaml:"hard-delay-ms" env-default:"1200"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Bot) EasyDelay() time.Duration {
	return time.Duration(that.EasyDelayMS) * time.Millisecond
}

func (that *Bot) MediumDelay() time.Duration {
	return time.Duration(that.MediumDelayMS) * time.Millisecond
}

func (that *Bot) HardDelay() time.Duration {
	return time.Duration(that.HardDelayMS) * time.Millisecond
}
