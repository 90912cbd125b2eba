// Package config provides configuration management for spotscrape.
//
// Configuration is layered through viper: built-in defaults, then an
// optional config file, then SPOTSCRAPE_* environment variables, then
// command-line flags bound by the CLI. The merged state is unmarshaled
// into a plain Settings struct that the rest of the program consumes.
//
//	v := viper.New()
//	config.SetDefaults(v)
//	v.SetEnvPrefix("SPOTSCRAPE")
//	v.AutomaticEnv()
//	settings, err := config.Load(v)
//
// Cookie files are JSON objects of name/value pairs; the values are
// handed to the browser layer untouched.
package config
