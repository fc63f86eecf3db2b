package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mstoykov/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL  = "https://opensource-demo.orangehrmlive.com/"
	DefaultUsername = "Admin"
	DefaultPassword = "admin123"
	DefaultBrowser  = "chromium"
)

// Browsers lists the browser engines a session can be launched with.
var Browsers = []string{"chromium", "firefox", "webkit"}

// LookupFunc looks up an environment variable, see os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Config describes the target deployment and how the browser is driven against it.
type Config struct {
	// BaseURL is the start URL every page is navigated to before a test.
	BaseURL string `yaml:"baseURL"`
	// Username and Password are the credentials of the demo administrator.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Browser is one of Browsers.
	Browser  string        `yaml:"browser"`
	Headless bool          `yaml:"headless"`
	SlowMo   time.Duration `yaml:"slowMo"`

	Timeouts  Timeouts  `yaml:"timeouts"`
	Selectors Selectors `yaml:"selectors"`
}

// Timeouts bound the blocking waits of the browser layer.
type Timeouts struct {
	// Action is the default timeout of locator actions (fill, click, text).
	Action time.Duration `yaml:"action"`
	// URL bounds explicit waits for a URL pattern after a navigation click.
	URL time.Duration `yaml:"url"`
	// Login bounds the wait for the dashboard after submitting valid credentials.
	Login time.Duration `yaml:"login"`
}

// Default returns the configuration of the public OrangeHRM demo.
func Default() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Username: DefaultUsername,
		Password: DefaultPassword,
		Browser:  DefaultBrowser,
		Headless: true,
		Timeouts: Timeouts{
			Action: 30 * time.Second,
			URL:    5 * time.Second,
			Login:  30 * time.Second,
		},
		Selectors: DefaultSelectors(),
	}
}

// envOverlay holds the values that may be overridden from the environment.
// Pointer fields stay nil when the variable is not set.
type envOverlay struct {
	BaseURL       *string        `envconfig:"HRM_BASE_URL"`
	Username      *string        `envconfig:"HRM_USERNAME"`
	Password      *string        `envconfig:"HRM_PASSWORD"`
	Browser       *string        `envconfig:"HRM_BROWSER"`
	Headless      *bool          `envconfig:"HEADLESS"`
	SlowMo        *time.Duration `envconfig:"HRM_SLOW_MO"`
	ActionTimeout *time.Duration `envconfig:"HRM_ACTION_TIMEOUT"`
	URLTimeout    *time.Duration `envconfig:"HRM_URL_TIMEOUT"`
	LoginTimeout  *time.Duration `envconfig:"HRM_LOGIN_TIMEOUT"`
}

// Load builds a configuration from the defaults, an optional YAML file and the environment.
// A nil lookup reads the process environment.
func Load(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decoding config file %s: %w", path, err)
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	var overlay envOverlay
	if err := envconfig.Process("", &overlay, lookup); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	overlay.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (o envOverlay) apply(cfg *Config) {
	setIfPresent(&cfg.BaseURL, o.BaseURL)
	setIfPresent(&cfg.Username, o.Username)
	setIfPresent(&cfg.Password, o.Password)
	setIfPresent(&cfg.Browser, o.Browser)
	setIfPresent(&cfg.Headless, o.Headless)
	setIfPresent(&cfg.SlowMo, o.SlowMo)
	setIfPresent(&cfg.Timeouts.Action, o.ActionTimeout)
	setIfPresent(&cfg.Timeouts.URL, o.URLTimeout)
	setIfPresent(&cfg.Timeouts.Login, o.LoginTimeout)
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks that the configuration can drive a browser session.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid baseURL: %w", err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid baseURL %q: must be an absolute http(s) URL", c.BaseURL)
	}

	known := false
	for _, b := range Browsers {
		if c.Browser == b {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("invalid browser %q: must be one of %s", c.Browser, strings.Join(Browsers, ", "))
	}

	if c.SlowMo < 0 {
		return errors.New("invalid slowMo: must not be negative")
	}
	if c.Timeouts.Action <= 0 {
		return errors.New("invalid timeouts.action: must be positive")
	}
	if c.Timeouts.URL <= 0 {
		return errors.New("invalid timeouts.url: must be positive")
	}
	if c.Timeouts.Login <= 0 {
		return errors.New("invalid timeouts.login: must be positive")
	}

	if err := c.Selectors.Validate(); err != nil {
		return err
	}
	return nil
}

// URL resolves path against BaseURL.
func (c Config) URL(path string) string {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL
	}
	ref, err := url.Parse(path)
	if err != nil {
		return c.BaseURL
	}
	return base.ResolveReference(ref).String()
}
