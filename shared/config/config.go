package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	DefaultJwtTTL         = 24 * time.Hour
	DefaultBcryptCost     = 10
	DefaultRequestTimeout = 10 * time.Second
	DefaultHttpAddr       = ":8080"
	DefaultNatsQueue      = "auth-consumer"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	JwtTTL         time.Duration `yaml:"jwt_ttl"`
	BcryptCost     int           `yaml:"bcrypt_cost" validate:"omitempty,min=4,max=31"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AutoMigrate    bool          `yaml:"auto_migrate"`
	Http           Http          `yaml:"http"`
	Nats           Nats          `yaml:"nats"`
	Log            Log           `yaml:"log"`
}

type Http struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// Https enables HSTS; TLS itself is terminated in front of the service.
	Https bool `yaml:"https"`
}

// Nats configures the message-pattern transport. An empty Url disables it.
type Nats struct {
	Url   string `yaml:"url"`
	Queue string `yaml:"queue"`
}

type Log struct {
	Level string `yaml:"level"`
	Json  bool   `yaml:"json"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key" validate:"required"`
	Pg     Pg     `yaml:"pg" validate:"required"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

// Dsn returns the lib/pq key/value connection string.
func (p Pg) Dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Dbname)
}

// Url returns the connection string in URL form, as golang-migrate expects it.
func (p Pg) Url() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Dbname,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyEnv()
	cfg.applyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}

// applyEnv lets deployment secrets override the files.
func (s *Config) applyEnv() {
	envString("JWT_SECRET", &s.Private.JwtKey)
	envString("POSTGRES_HOST", &s.Private.Pg.Host)
	envString("POSTGRES_USER", &s.Private.Pg.User)
	envString("POSTGRES_PASSWORD", &s.Private.Pg.Password)
	envString("POSTGRES_DB", &s.Private.Pg.Dbname)
	envString("NATS_URL", &s.Public.Nats.Url)
	if v, ok := os.LookupEnv("POSTGRES_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			panic("POSTGRES_PORT is not a number: " + v)
		}
		s.Private.Pg.Port = port
	}
}

func (s *Config) applyDefaults() {
	if s.Public.JwtTTL == 0 {
		s.Public.JwtTTL = DefaultJwtTTL
	}
	if s.Public.BcryptCost == 0 {
		s.Public.BcryptCost = DefaultBcryptCost
	}
	if s.Public.RequestTimeout == 0 {
		s.Public.RequestTimeout = DefaultRequestTimeout
	}
	if s.Public.Http.Addr == "" {
		s.Public.Http.Addr = DefaultHttpAddr
	}
	if s.Public.Nats.Queue == "" {
		s.Public.Nats.Queue = DefaultNatsQueue
	}
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
