package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// initConfig loads the optional config file and ELBLOG_* environment
// variables. Keys are flag names, e.g. "max-line" or ELBLOG_MAX_LINE.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".elblog")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("elblog")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// applyConfig fills every flag not given on the command line from v, so
// the command line always wins.
func applyConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "config" || f.Name == "help" || !v.IsSet(f.Name) {
			return
		}
		var err error
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			err = sv.Replace(v.GetStringSlice(f.Name))
		} else {
			err = flags.Set(f.Name, v.GetString(f.Name))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("config %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}
