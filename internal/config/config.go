/**
* Name: 			config.go
* Description: 		환경 변수(.env 포함) 기반 애플리케이션 설정
* Workflow: 		.env 로드, viper 바인딩, 기본값 적용, 검증
 */
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "default_secret_key"

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Log       LogConfig
	OpenData  OpenDataConfig
	Chat      ChatConfig
	Naver     NaverConfig
	Facility  FacilityConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Env             string
	Port            string
	UpstreamTimeout time.Duration
	InviteCode      string // 비어 있으면 가입 코드 검사 안 함
}

type DatabaseConfig struct {
	Path string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// 경기데이터드림 OpenAPI
type OpenDataConfig struct {
	APIKey       string
	BaseURL      string
	DefaultSigun string
}

// 외부 챗봇 서버
type ChatConfig struct {
	BaseURL    string
	APIKey     string
	ActionWait time.Duration
}

type NaverConfig struct {
	ClientID     string
	ClientSecret string
	GeocodeURL   string
}

type FacilityConfig struct {
	DataPath string
}

type CacheConfig struct {
	RedisAddr string
	TTL       time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// viper key -> 환경 변수 이름
var envBindings = map[string]string{
	"app.env":              "APP_ENV",
	"app.port":             "PORT",
	"app.upstream_timeout": "UPSTREAM_TIMEOUT",
	"app.invite_code":      "SIGNUP_INVITE_CODE",
	"database.path":        "DB_PATH",
	"jwt.secret":           "JWT_SECRET_KEY",
	"jwt.expiration":       "JWT_EXPIRATION",
	"log.level":            "LOG_LEVEL",
	"log.format":           "LOG_FORMAT",
	"log.output":           "LOG_OUTPUT",
	"opendata.api_key":     "GG_API_KEY",
	"opendata.base_url":    "GG_API_BASE_URL",
	"opendata.sigun":       "DEFAULT_SIGUN",
	"chat.base_url":        "CHAT_SERVER_URL",
	"chat.api_key":         "CHAT_SERVER_API_KEY",
	"chat.action_wait":     "CHAT_ACTION_WAIT",
	"naver.client_id":      "NAVER_CLIENT_ID",
	"naver.client_secret":  "NAVER_CLIENT_SECRET",
	"naver.geocode_url":    "NAVER_GEOCODE_URL",
	"facility.path":        "FACILITIES_PATH",
	"cache.redis_addr":     "REDIS_ADDR",
	"cache.ttl":            "CACHE_TTL",
	"ratelimit.rps":        "RATE_LIMIT_RPS",
	"ratelimit.burst":      "RATE_LIMIT_BURST",
}

// Load는 .env 파일(있다면)과 환경 변수에서 설정을 읽는다.
func Load() (*Config, error) {
	// .env가 없어도 환경 변수만으로 동작
	_ = godotenv.Load()

	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config.Load(): failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:             v.GetString("app.env"),
			Port:            v.GetString("app.port"),
			UpstreamTimeout: v.GetDuration("app.upstream_timeout"),
			InviteCode:      v.GetString("app.invite_code"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		OpenData: OpenDataConfig{
			APIKey:       v.GetString("opendata.api_key"),
			BaseURL:      v.GetString("opendata.base_url"),
			DefaultSigun: v.GetString("opendata.sigun"),
		},
		Chat: ChatConfig{
			BaseURL:    v.GetString("chat.base_url"),
			APIKey:     v.GetString("chat.api_key"),
			ActionWait: v.GetDuration("chat.action_wait"),
		},
		Naver: NaverConfig{
			ClientID:     v.GetString("naver.client_id"),
			ClientSecret: v.GetString("naver.client_secret"),
			GeocodeURL:   v.GetString("naver.geocode_url"),
		},
		Facility: FacilityConfig{
			DataPath: v.GetString("facility.path"),
		},
		Cache: CacheConfig{
			RedisAddr: v.GetString("cache.redis_addr"),
			TTL:       v.GetDuration("cache.ttl"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
	}

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.UpstreamTimeout <= 0 {
		cfg.App.UpstreamTimeout = 10 * time.Second
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./momcare.db"
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = defaultJWTSecret
	}
	if cfg.JWT.Expiration <= 0 {
		cfg.JWT.Expiration = 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "AnsanMomCare-api"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.OpenData.BaseURL == "" {
		cfg.OpenData.BaseURL = "https://openapi.gg.go.kr/PostnatalCare"
	}
	if cfg.OpenData.DefaultSigun == "" {
		cfg.OpenData.DefaultSigun = "안산시"
	}
	if cfg.Chat.ActionWait <= 0 {
		cfg.Chat.ActionWait = 4 * time.Second
	}
	if cfg.Naver.GeocodeURL == "" {
		cfg.Naver.GeocodeURL = "https://naveropenapi.apigw.ntruss.com/map-geocode/v2/geocode"
	}
	if cfg.Facility.DataPath == "" {
		cfg.Facility.DataPath = "data/facilities.json"
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
	if cfg.RateLimit.RPS <= 0 {
		cfg.RateLimit.RPS = 5
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 10
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.IsProduction() && c.JWT.Secret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET_KEY must be set in production"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unsupported LOG_FORMAT %q", c.Log.Format))
	}
	if c.Chat.BaseURL != "" && !strings.HasPrefix(c.Chat.BaseURL, "http") {
		errs = append(errs, fmt.Errorf("CHAT_SERVER_URL must be an http(s) URL, got %q", c.Chat.BaseURL))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Addr는 gin.Run에 넘길 listen 주소
func (c *Config) Addr() string {
	if strings.HasPrefix(c.App.Port, ":") {
		return c.App.Port
	}
	return ":" + c.App.Port
}
