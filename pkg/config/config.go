package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente y del backend de desarrollo
// (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	UI      UIConfig
	Dev     DevServerConfig
	JWT     JWTConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// APIConfig configuración del backend REST consumido.
// BaseURL termina siempre en "/": las rutas relativas (products/, auth/token/) se resuelven contra ella.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig dónde se persisten tokens y usuario.
type SessionConfig struct {
	Backend string // memory | file | redis
	File    string
	Key     string // clave en Redis
}

// RedisConfig conexión para el backend de sesión "redis".
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr devuelve host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// UIConfig parámetros de presentación de listados, alertas y exportación.
type UIConfig struct {
	PageSize        int
	ExpiringHorizon int // días
	TopBrands       int
	LowStockMin     int
	ExportDir       string
}

// DevServerConfig servidor local que implementa la API para desarrollo.
type DevServerConfig struct {
	Host string
	Port int
	DSN  string // SQLite; ":memory:" por defecto
}

// Addr devuelve la dirección de escucha (host:port).
func (c DevServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig firma de tokens del servidor de desarrollo.
type JWTConfig struct {
	Secret         string
	AccessMinutes  int
	RefreshMinutes int
	Issuer         string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: STOCK_API_URL, SESSION_BACKEND, JWT_SECRET, etc.
func Load() (*Config, error) {
	return FromViper(NewViper())
}

// NewViper instancia con .env / config.* del directorio actual y las
// variables de entorno ya enlazadas.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// FromViper construye la configuración desde una instancia ya poblada
// (la CLI la usa después de enlazar sus flags).
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stockctl"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL: normalizeBaseURL(getString(v, "STOCK_API_URL", "http://127.0.0.1:8000/api/")),
			Timeout: time.Duration(getInt(v, "STOCK_API_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Session: SessionConfig{
			Backend: getString(v, "SESSION_BACKEND", "file"),
			File:    getString(v, "SESSION_FILE", defaultSessionFile()),
			Key:     getString(v, "SESSION_KEY", "stockctl:session"),
		},
		Redis: RedisConfig{
			Host:     getString(v, "REDIS_HOST", "localhost"),
			Port:     getString(v, "REDIS_PORT", "6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		UI: UIConfig{
			PageSize:        getInt(v, "PAGE_SIZE", 20),
			ExpiringHorizon: getInt(v, "EXPIRING_HORIZON_DAYS", 30),
			TopBrands:       getInt(v, "TOP_BRANDS", 5),
			LowStockMin:     getInt(v, "LOW_STOCK_MIN", 10),
			ExportDir:       getString(v, "EXPORT_DIR", "."),
		},
		Dev: DevServerConfig{
			Host: getString(v, "DEV_HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "DEV_HTTP_PORT", 8000),
			DSN:  getString(v, "DEV_DB_DSN", ":memory:"),
		},
		JWT: JWTConfig{
			Secret:         getString(v, "JWT_SECRET", ""),
			AccessMinutes:  getInt(v, "JWT_ACCESS_MINUTES", 5),
			RefreshMinutes: getInt(v, "JWT_REFRESH_MINUTES", 60*24),
			Issuer:         getString(v, "JWT_ISSUER", "stock-control"),
		},
	}

	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("config: STOCK_API_TIMEOUT_SECONDS debe ser positivo")
	}
	if cfg.UI.PageSize <= 0 {
		return nil, fmt.Errorf("config: PAGE_SIZE debe ser positivo")
	}
	switch cfg.Session.Backend {
	case "memory", "file", "redis":
	default:
		return nil, fmt.Errorf("config: SESSION_BACKEND desconocido %q", cfg.Session.Backend)
	}
	return cfg, nil
}

// normalizeBaseURL garantiza la barra final; sin ella "api" + "products/" resolvería a "/products/".
func normalizeBaseURL(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".stockctl-session.json"
	}
	return filepath.Join(dir, "stockctl", "session.json")
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
