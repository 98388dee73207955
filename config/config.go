package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// GetConfig loads the default options and applies environment overrides.
func GetConfig() (*Options, error) {
	GetDefaultOptions()
	applyEnv()
	return Opts, nil
}

// ParseFile loads options from a config file on top of the defaults.
// Environment variables prefixed with TETHER_ take precedence over both.
func ParseFile(file string) (*Options, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrapf(err, "unable to access config file %s", file)
	}

	viper.SetConfigFile(file)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := viper.Unmarshal(Opts); err != nil {
		return nil, err
	}
	applyEnv()
	return Opts, nil
}

func applyEnv() {
	viper.SetEnvPrefix("tether")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if v := viper.GetString("mongo_uri"); v != "" {
		Opts.MongoURI = v
	}
	if v := viper.GetString("storage_access_key"); v != "" {
		Opts.StorageAccessKey = v
	}
	if v := viper.GetString("storage_secret_key"); v != "" {
		Opts.StorageSecretKey = v
	}
	if v := viper.GetString("auth_project_id"); v != "" {
		Opts.AuthProjectID = v
	}
}

// CheckSupportedTypes checks if the declared MIME type is accepted for upload.
func CheckSupportedTypes(mimeType string) bool {
	if len(Opts.SupportedTypes) == 0 {
		return false
	}

	for _, t := range Opts.SupportedTypes {
		if t == mimeType {
			return true
		}
	}

	return false
}
