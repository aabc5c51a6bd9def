package config

import (
	"flag"
	"os"
	"time"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-u string   backend base URL
//	-k string   anon API key
//	-t string   access token file
//	-d string   local database path
//	-i int      online check interval in seconds
//	-c string   JSON config file (handled by parseJson)
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("agent", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "backend base URL")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "anon API key")
	fs.StringVar(&cfg.AccessTokenFile, "t", cfg.AccessTokenFile, "access token file")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	var configFile string
	fs.StringVar(&configFile, "config", "", "path to config file")
	fs.StringVar(&configFile, "c", "", "path to config file (short)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
