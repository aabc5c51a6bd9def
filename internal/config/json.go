package config

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pvaillant/fieldreport/internal/timex"
)

// jsonConfig is the DTO for the JSON config file. Durations accept either
// strings like "30s" or integer nanoseconds via timex.Duration.
type jsonConfig struct {
	BaseURL             string         `json:"base_url"`
	APIKey              string         `json:"api_key"`
	AccessTokenFile     string         `json:"access_token_file"`
	DatabasePath        string         `json:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`

	S3 struct {
		Endpoint      string `json:"endpoint"`
		Region        string `json:"region"`
		Bucket        string `json:"bucket"`
		AccessKey     string `json:"access_key"`
		SecretKey     string `json:"secret_key"`
		PublicURLBase string `json:"public_url_base"`
	} `json:"s3"`
}

// configFilePath pre-scans os.Args for -c/-config without disturbing the
// main flag parsing.
func configFilePath() string {
	var path string
	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(nil)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")

	for i, arg := range os.Args[1:] {
		if arg == "-c" || arg == "-config" || arg == "--c" || arg == "--config" {
			_ = fs.Parse(os.Args[1+i:])
			break
		}
	}
	return path
}

// parseJson overlays cfg with values from the JSON config file, when one is
// given. Read and parse errors panic; the agent cannot run with a broken
// config.
func parseJson(cfg *Config) {
	path := configFilePath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.APIKey != "" {
		cfg.APIKey = jc.APIKey
	}
	if jc.AccessTokenFile != "" {
		cfg.AccessTokenFile = jc.AccessTokenFile
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.S3.Endpoint != "" {
		cfg.S3.Endpoint = jc.S3.Endpoint
	}
	if jc.S3.Region != "" {
		cfg.S3.Region = jc.S3.Region
	}
	if jc.S3.Bucket != "" {
		cfg.S3.Bucket = jc.S3.Bucket
	}
	if jc.S3.AccessKey != "" {
		cfg.S3.AccessKey = jc.S3.AccessKey
	}
	if jc.S3.SecretKey != "" {
		cfg.S3.SecretKey = jc.S3.SecretKey
	}
	if jc.S3.PublicURLBase != "" {
		cfg.S3.PublicURLBase = jc.S3.PublicURLBase
	}
}
