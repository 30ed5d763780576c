package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

const DefaultAPIBaseURL = "https://jsonplaceholder.typicode.com"

type Config struct {
	Port            string        `help:"HTTP listen port." default:"3000" env:"PORT"`
	APIBaseURL      string        `name:"api-base-url" help:"Base URL of the posts/users API." default:"https://jsonplaceholder.typicode.com" env:"API_BASE_URL"`
	FetchTimeout    time.Duration `help:"Timeout for a single API fetch." default:"10s" env:"FETCH_TIMEOUT"`
	Revalidate      time.Duration `help:"Refetch the API snapshot when older than this. Zero keeps the first successful fetch." default:"0s" env:"REVALIDATE"`
	PageIdleTimeout time.Duration `help:"Drop page state that has not been touched for this long." default:"30m" env:"PAGE_IDLE_TIMEOUT"`
	JanitorInterval time.Duration `help:"How often idle pages are swept." default:"1m" env:"JANITOR_INTERVAL"`
	Locale          string        `help:"BCP 47 locale used to sort users." default:"en" env:"LOCALE"`
	SessionSecret   string        `help:"Key for signing the visitor cookie. Random when empty." env:"SESSION_SECRET"`
	SecureCookies   bool          `help:"Mark the visitor cookie Secure." env:"SECURE_COOKIES"`

	EnvFile []string `help:"Dotenv files to load before parsing." default:".env" env:"ENV_FILE" sep:","`
}

// LoadConfig reads dotenv files and then parses args and the environment.
// A missing dotenv file is not an error.
func LoadConfig(args []string) (*Config, error) {
	if err := loadEnvFiles(envFilesFromArgs(args)); err != nil {
		return nil, err
	}

	cfg := &Config{}
	parser, err := kong.New(cfg,
		kong.Name("postboard"),
		kong.Description("Server-rendered posts and users board."),
		kong.UsageOnError(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that kong cannot check on its own.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("LOCALE %q is not a valid language tag: %w", c.Locale, err)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.Revalidate < 0 {
		return fmt.Errorf("REVALIDATE must not be negative")
	}
	if c.PageIdleTimeout <= 0 {
		return fmt.Errorf("PAGE_IDLE_TIMEOUT must be positive")
	}
	if c.JanitorInterval <= 0 {
		return fmt.Errorf("JANITOR_INTERVAL must be positive")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is not set")
	}
	return nil
}

// LanguageTag returns the parsed locale. Validate has already rejected bad tags.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func loadEnvFiles(files []string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// envFilesFromArgs picks --env-file values out of args ahead of the real
// parse, so variables from those files are visible to kong's env lookup.
func envFilesFromArgs(args []string) []string {
	var files []string
	for i := 0; i < len(args); i++ {
		if v, ok := strings.CutPrefix(args[i], "--env-file="); ok {
			files = append(files, strings.Split(v, ",")...)
			continue
		}
		if args[i] == "--env-file" && i+1 < len(args) {
			files = append(files, strings.Split(args[i+1], ",")...)
			i++
		}
	}
	if len(files) == 0 {
		if v := os.Getenv("ENV_FILE"); v != "" {
			return strings.Split(v, ",")
		}
		return []string{".env"}
	}
	return files
}
