package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/minimind-ai/minimind/pkg/log"
)

const configFlagName = "config"

// LoadConfig reads the configuration file into viper and watches it for
// changes. An explicit cfg path wins; otherwise defaultName.yaml is searched
// in the working directory, ~/.minimind and /etc/minimind.
func LoadConfig(cfg string, defaultName string) {
	if cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".minimind"))
		}
		viper.AddConfigPath("/etc/minimind")
		viper.SetConfigName(defaultName)
	}

	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("MINIMIND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("read config file failed: %v", err)
		}
		return
	}

	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info("config file changed: %s", e.Name)
	})
}
