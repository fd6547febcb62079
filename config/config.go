package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Redis   RedisConfig   `yaml:"redis"`
	Auth    AuthConfig    `yaml:"auth"`
	Hotel   HotelConfig   `yaml:"hotel"`
	Uploads UploadsConfig `yaml:"uploads"`
	Mail    MailConfig    `yaml:"mail"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

type HotelConfig struct {
	Name          string  `yaml:"name"`
	Email         string  `yaml:"email"`
	TimeZone      string  `yaml:"time_zone"`
	TaxRate       float64 `yaml:"tax_rate"`
	ReceiptSecret string  `yaml:"receipt_secret"`
}

type UploadsConfig struct {
	Dir string `yaml:"dir"`
}

type MailConfig struct {
	EmailJS EmailJSConfig `yaml:"emailjs"`
	SMTP    SMTPConfig    `yaml:"smtp"`
}

type EmailJSConfig struct {
	ServiceID       string `yaml:"service_id"`
	PublicKey       string `yaml:"public_key"`
	PrivateKey      string `yaml:"private_key"`
	BillTemplate    string `yaml:"bill_template"`
	ContactTemplate string `yaml:"contact_template"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Port: "4000", AllowedOrigins: []string{"http://localhost:3000"}},
		Mongo:  MongoConfig{URI: "mongodb://localhost:27017", Database: "goodnight"},
		Hotel:  HotelConfig{Name: "Good Night Inn", TaxRate: 0.13},
		Uploads: UploadsConfig{
			Dir: "static/uploads",
		},
		Mail: MailConfig{SMTP: SMTPConfig{Port: "587"}},
	}
}

// Load reads .env, then the YAML file at path, then environment overrides.
// A missing .env or YAML file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Server.Port)
	str("MONGO_URI", &c.Mongo.URI)
	str("MONGO_DB", &c.Mongo.Database)
	str("REDIS_ADDR", &c.Redis.Address)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("ADMIN_EMAIL", &c.Auth.AdminEmail)
	str("ADMIN_PASSWORD", &c.Auth.AdminPassword)
	str("HOTEL_NAME", &c.Hotel.Name)
	str("HOTEL_EMAIL", &c.Hotel.Email)
	str("HOTEL_TZ", &c.Hotel.TimeZone)
	str("RECEIPT_SECRET", &c.Hotel.ReceiptSecret)
	str("UPLOAD_DIR", &c.Uploads.Dir)
	str("EMAILJS_SERVICE_ID", &c.Mail.EmailJS.ServiceID)
	str("EMAILJS_PUBLIC_KEY", &c.Mail.EmailJS.PublicKey)
	str("EMAILJS_PRIVATE_KEY", &c.Mail.EmailJS.PrivateKey)
	str("EMAILJS_BILL_TEMPLATE", &c.Mail.EmailJS.BillTemplate)
	str("EMAILJS_CONTACT_TEMPLATE", &c.Mail.EmailJS.ContactTemplate)
	str("SMTP_HOST", &c.Mail.SMTP.Host)
	str("SMTP_PORT", &c.Mail.SMTP.Port)
	str("SMTP_USERNAME", &c.Mail.SMTP.Username)
	str("SMTP_PASSWORD", &c.Mail.SMTP.Password)
	str("SMTP_FROM", &c.Mail.SMTP.From)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v, ok := lookup("REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	if v, ok := lookup("TAX_RATE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TAX_RATE: %w", err)
		}
		c.Hotel.TaxRate = f
	}
	return nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.Mongo.Database == "" {
		errs = append(errs, errors.New("MONGO_DB is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Hotel.ReceiptSecret == "" {
		errs = append(errs, errors.New("RECEIPT_SECRET is required"))
	}
	if c.Hotel.TaxRate < 0 || c.Hotel.TaxRate >= 1 {
		errs = append(errs, fmt.Errorf("tax rate %v out of range [0,1)", c.Hotel.TaxRate))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}

// Location is the hotel time zone, the process zone when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Hotel.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Hotel.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("HOTEL_TZ %q: %w", c.Hotel.TimeZone, err)
	}
	return loc, nil
}

// Templates maps mail template names to EmailJS template ids.
func (m MailConfig) Templates() map[string]string {
	t := map[string]string{}
	if m.EmailJS.BillTemplate != "" {
		t["bill"] = m.EmailJS.BillTemplate
	}
	if m.EmailJS.ContactTemplate != "" {
		t["contact"] = m.EmailJS.ContactTemplate
	}
	return t
}
