package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/evcc-io/onstar/server"
	"github.com/spf13/viper"
)

type config struct {
	URI      string
	Log      string
	Levels   map[string]string
	Interval time.Duration
	Metrics  bool
	OnStar   map[string]interface{} `mapstructure:"onstar"`
	Mqtt     server.MqttConfig
	Influx   server.InfluxConfig
}

func loadConfigFile(cfgFile string) (conf config, err error) {
	if cfgFile == "" {
		return conf, errors.New("missing config file")
	}

	log.INFO.Println("using config file", cfgFile)

	if err := viper.UnmarshalExact(&conf); err != nil {
		return conf, fmt.Errorf("failed parsing config file %s: %w", cfgFile, err)
	}

	if conf.OnStar == nil {
		return conf, errors.New("missing onstar configuration")
	}

	return conf, nil
}
