// Package config provides functionality for managing configuration options
// for the application using defaults, a JSON config file, command-line flags
// and environment variables, in increasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Duration is a time.Duration that reads "3s"-style strings from JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the HTTP server's listening address (ip:port).
	Port string `json:"server_address"`

	// ResultHostname is the base URL that redirect links are built on.
	ResultHostname string `json:"base_url"`

	// FilePath is the path to the storage journal.
	FilePath string `json:"file_storage_path"`

	// DatabaseDSN selects the PostgreSQL storage when set.
	DatabaseDSN string `json:"database_dsn"`

	EnablePprof bool `json:"enable_pprof"`
	EnableHTTPS bool `json:"enable_https"`
	// HTTPSHosts are the domains certificates are requested for.
	HTTPSHosts []string `json:"https_hosts"`

	// TrustedSubnet guards the internal endpoints (CIDR).
	TrustedSubnet string `json:"trusted_subnet"`
	// TrustedProxy is the CIDR of the reverse proxy whose X-Real-IP and
	// X-Forwarded-For headers are believed.
	TrustedProxy string `json:"trusted_proxy"`

	GRPCPort string `json:"grpc_port"`

	// RedisAddr switches rate limiting to the shared Redis limiter.
	RedisAddr string `json:"redis_addr"`

	// KafkaBrokers enables publishing scan events.
	KafkaBrokers []string `json:"kafka_brokers"`
	KafkaTopic   string   `json:"kafka_topic"`

	GeoAPIURL string `json:"geo_api_url"`

	LogLevel string `json:"log_level"`
	// LogFile adds a rotating file output.
	LogFile string `json:"log_file"`

	JWTSecret string `json:"jwt_secret"`

	// CountdownSeconds is shown on the redirect page before navigating.
	CountdownSeconds int      `json:"countdown_seconds"`
	LookupTimeout    Duration `json:"lookup_timeout"`
	CacheTTL         Duration `json:"cache_ttl"`

	// Config is the path of the JSON config file.
	Config string `json:"-"`
}

// Defaults returns the options used when nothing else is configured.
func Defaults() *Options {
	return &Options{
		Port:             "localhost:8080",
		ResultHostname:   "http://localhost:8080",
		GRPCPort:         ":3200",
		KafkaTopic:       "qr-scans",
		GeoAPIURL:        "https://ipapi.co",
		LogLevel:         "info",
		CountdownSeconds: 3,
		LookupTimeout:    Duration{3 * time.Second},
		CacheTTL:         Duration{5 * time.Minute},
	}
}

// Parse reads the configuration of the running process.
func Parse() (*Options, error) {
	// A missing .env file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return ParseArgs(os.Args[1:])
}

// ParseArgs builds options from args and the environment.
func ParseArgs(args []string) (*Options, error) {
	fromFlags := Defaults()

	fset := flag.NewFlagSet("neoqrc", flag.ContinueOnError)
	fset.StringVar(&fromFlags.Port, "a", fromFlags.Port, "run on ip:port server")
	fset.StringVar(&fromFlags.ResultHostname, "b", fromFlags.ResultHostname, "result base url")
	fset.StringVar(&fromFlags.FilePath, "f", "", "path to storage file")
	fset.StringVar(&fromFlags.DatabaseDSN, "d", "", "db address")
	fset.BoolVar(&fromFlags.EnablePprof, "p", false, "enable pprof")
	fset.BoolVar(&fromFlags.EnableHTTPS, "s", false, "enable https")
	fset.StringVar(&fromFlags.TrustedSubnet, "t", "", "trusted subnet (CIDR)")
	fset.StringVar(&fromFlags.TrustedProxy, "trusted-proxy", "", "reverse proxy subnet (CIDR)")
	fset.StringVar(&fromFlags.GRPCPort, "g", fromFlags.GRPCPort, "grpc listen address")
	fset.StringVar(&fromFlags.RedisAddr, "r", "", "redis address for rate limiting")
	fset.StringVar(&fromFlags.LogLevel, "l", fromFlags.LogLevel, "log level")
	fset.StringVar(&fromFlags.LogFile, "log-file", "", "rotating log file")
	fset.StringVar(&fromFlags.JWTSecret, "j", "", "jwt signing secret")
	fset.IntVar(&fromFlags.CountdownSeconds, "countdown", fromFlags.CountdownSeconds, "redirect countdown in seconds")
	fset.DurationVar(&fromFlags.LookupTimeout.Duration, "lookup-timeout", fromFlags.LookupTimeout.Duration, "redirect lookup timeout")
	fset.DurationVar(&fromFlags.CacheTTL.Duration, "cache-ttl", fromFlags.CacheTTL.Duration, "redirect cache ttl")
	fset.StringVar(&fromFlags.Config, "c", "", "path to json config")
	brokers := fset.String("k", "", "comma separated kafka brokers")
	hosts := fset.String("https-hosts", "", "comma separated https domains")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	options := Defaults()

	configPath := fromFlags.Config
	if env := os.Getenv("CONFIG"); env != "" {
		configPath = env
	}
	if configPath != "" {
		if err := loadFile(configPath, options); err != nil {
			return nil, err
		}
		options.Config = configPath
	}

	// Flags set explicitly override the file.
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			options.Port = fromFlags.Port
		case "b":
			options.ResultHostname = fromFlags.ResultHostname
		case "f":
			options.FilePath = fromFlags.FilePath
		case "d":
			options.DatabaseDSN = fromFlags.DatabaseDSN
		case "p":
			options.EnablePprof = fromFlags.EnablePprof
		case "s":
			options.EnableHTTPS = fromFlags.EnableHTTPS
		case "t":
			options.TrustedSubnet = fromFlags.TrustedSubnet
		case "trusted-proxy":
			options.TrustedProxy = fromFlags.TrustedProxy
		case "g":
			options.GRPCPort = fromFlags.GRPCPort
		case "r":
			options.RedisAddr = fromFlags.RedisAddr
		case "l":
			options.LogLevel = fromFlags.LogLevel
		case "log-file":
			options.LogFile = fromFlags.LogFile
		case "j":
			options.JWTSecret = fromFlags.JWTSecret
		case "countdown":
			options.CountdownSeconds = fromFlags.CountdownSeconds
		case "lookup-timeout":
			options.LookupTimeout = fromFlags.LookupTimeout
		case "cache-ttl":
			options.CacheTTL = fromFlags.CacheTTL
		case "k":
			options.KafkaBrokers = splitList(*brokers)
		case "https-hosts":
			options.HTTPSHosts = splitList(*hosts)
		}
	})

	if err := applyEnv(options); err != nil {
		return nil, err
	}

	if err := options.validate(); err != nil {
		return nil, err
	}

	return options, nil
}

func (o *Options) validate() error {
	if o.LookupTimeout.Duration <= 0 {
		return fmt.Errorf("lookup timeout must be positive, got %s", o.LookupTimeout)
	}
	if o.CacheTTL.Duration <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", o.CacheTTL)
	}
	if o.CountdownSeconds < 0 {
		return fmt.Errorf("countdown must not be negative, got %d", o.CountdownSeconds)
	}
	return nil
}

// loadFile overlays the values present in the JSON file on options. Zero
// values in the file keep the current setting.
func loadFile(path string, options *Options) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var file Options
	if err := json.Unmarshal(content, &file); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&options.Port, file.Port)
	setString(&options.ResultHostname, file.ResultHostname)
	setString(&options.FilePath, file.FilePath)
	setString(&options.DatabaseDSN, file.DatabaseDSN)
	setString(&options.TrustedSubnet, file.TrustedSubnet)
	setString(&options.TrustedProxy, file.TrustedProxy)
	setString(&options.GRPCPort, file.GRPCPort)
	setString(&options.RedisAddr, file.RedisAddr)
	setString(&options.KafkaTopic, file.KafkaTopic)
	setString(&options.GeoAPIURL, file.GeoAPIURL)
	setString(&options.LogLevel, file.LogLevel)
	setString(&options.LogFile, file.LogFile)
	setString(&options.JWTSecret, file.JWTSecret)

	options.EnablePprof = options.EnablePprof || file.EnablePprof
	options.EnableHTTPS = options.EnableHTTPS || file.EnableHTTPS

	if len(file.HTTPSHosts) > 0 {
		options.HTTPSHosts = file.HTTPSHosts
	}
	if len(file.KafkaBrokers) > 0 {
		options.KafkaBrokers = file.KafkaBrokers
	}
	if file.CountdownSeconds != 0 {
		options.CountdownSeconds = file.CountdownSeconds
	}
	if file.LookupTimeout.Duration != 0 {
		options.LookupTimeout = file.LookupTimeout
	}
	if file.CacheTTL.Duration != 0 {
		options.CacheTTL = file.CacheTTL
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func applyEnv(options *Options) error {
	strs := map[string]*string{
		"SERVER_ADDRESS":    &options.Port,
		"BASE_URL":          &options.ResultHostname,
		"FILE_STORAGE_PATH": &options.FilePath,
		"DATABASE_DSN":      &options.DatabaseDSN,
		"TRUSTED_SUBNET":    &options.TrustedSubnet,
		"TRUSTED_PROXY":     &options.TrustedProxy,
		"GRPC_PORT":         &options.GRPCPort,
		"REDIS_ADDR":        &options.RedisAddr,
		"KAFKA_TOPIC":       &options.KafkaTopic,
		"GEO_API_URL":       &options.GeoAPIURL,
		"LOG_LEVEL":         &options.LogLevel,
		"LOG_FILE":          &options.LogFile,
		"JWT_SECRET":        &options.JWTSecret,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		options.KafkaBrokers = splitList(v)
	}
	if v := os.Getenv("HTTPS_HOSTS"); v != "" {
		options.HTTPSHosts = splitList(v)
	}

	bools := map[string]*bool{
		"ENABLE_HTTPS": &options.EnableHTTPS,
		"ENABLE_PPROF": &options.EnablePprof,
	}
	for name, dst := range bools {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = b
		}
	}

	if v := os.Getenv("COUNTDOWN_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COUNTDOWN_SECONDS: %w", err)
		}
		options.CountdownSeconds = n
	}

	durations := map[string]*Duration{
		"LOOKUP_TIMEOUT": &options.LookupTimeout,
		"CACHE_TTL":      &options.CacheTTL,
	}
	for name, dst := range durations {
		if v := os.Getenv(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			dst.Duration = d
		}
	}

	return nil
}

func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
