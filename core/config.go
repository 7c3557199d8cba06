package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (local; default), TEST, QA, PROD
	Build    string
	AppName  string

	Server struct {
		Addr            string
		DebugAddr       string
		ShutdownTimeout time.Duration
	}

	Catalog struct {
		BaseURL      string
		PageSize     int
		PriceCeiling int // minor currency unit; sentinel for "no upper bound"
		FetchTimeout time.Duration
	}

	Storage struct {
		Engine string // file (default) | postgres | memory
		Dir    string
	}

	Database struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          int
		DisableTLS    bool
	}

	RollbarToken string
}

func (c *Config) DatabaseAddress() string {
	return fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Sokoni")
	v.SetDefault("build", "dev")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugAddr", ":8001")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("catalogBaseUrl", "http://localhost:9000")
	v.SetDefault("catalogPageSize", 12)
	v.SetDefault("catalogPriceCeiling", 50000)
	v.SetDefault("catalogFetchTimeout", 10*time.Second)
	v.SetDefault("storageEngine", "file")
	v.SetDefault("storageDir", filepath.Join(Getwd(), "data"))
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "sokoni")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbDisableTls", true)
	v.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case strings.ToUpper("TEST"):
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.Server.Addr = v.GetString("serverAddr")
	conf.Server.DebugAddr = v.GetString("serverDebugAddr")
	conf.Server.ShutdownTimeout = v.GetDuration("serverShutdownTimeout")
	conf.Catalog.BaseURL = v.GetString("catalogBaseUrl")
	conf.Catalog.PageSize = v.GetInt("catalogPageSize")
	conf.Catalog.PriceCeiling = v.GetInt("catalogPriceCeiling")
	conf.Catalog.FetchTimeout = v.GetDuration("catalogFetchTimeout")
	conf.Storage.Engine = v.GetString("storageEngine")
	conf.Storage.Dir = v.GetString("storageDir")
	conf.Database.Engine = v.GetString("dbEngine")
	conf.Database.Name = v.GetString("dbName")
	conf.Database.User = v.GetString("dbUser")
	conf.Database.Password = v.GetString("dbPassword")
	conf.Database.AdminUser = v.GetString("dbAdminUser")
	conf.Database.AdminPassword = v.GetString("dbAdminPassword")
	conf.Database.Host = v.GetString("dbHost")
	conf.Database.Port = v.GetInt("dbPort")
	conf.Database.DisableTLS = v.GetBool("dbDisableTls")
	return conf
}
