package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, APIToken, LogLevel string }
type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

// PlatnosciCfg is the POS configuration from the gateway's admin panel.
type PlatnosciCfg struct {
	Key1           string
	Key2           string
	PosIDs         []string
	PosAuthKey     string
	Encoding       string
	CheckReportSig bool
	HTTPDebug      bool
	Host           string
	Timeout        time.Duration
}

type ReconcileCfg struct {
	PollEvery  time.Duration
	Batch      int
	RecheckIn  time.Duration
	MaxElapsed time.Duration
}

type Cfg struct {
	App       AppCfg
	DB        DBCfg
	Redis     RedisCfg
	Platnosci PlatnosciCfg
	Reconcile ReconcileCfg
}

func Load() Cfg {
	// 1) Load .env into process env (if file exists); real env wins
	_ = godotenv.Load(".env")

	// 2) Read from env via viper
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "sandbox")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PLATNOSCI_TIMEOUT", "30s")
	v.SetDefault("RECONCILE_POLL_EVERY", "5s")
	v.SetDefault("RECONCILE_BATCH", 50)
	v.SetDefault("RECONCILE_RECHECK_IN", "1m")
	v.SetDefault("RECONCILE_MAX_ELAPSED", "30s")

	cfg := Cfg{
		App: AppCfg{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			APIToken: strings.TrimSpace(v.GetString("API_TOKEN")),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB:    DBCfg{DSN: v.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: v.GetString("REDIS_ADDR")},
		Platnosci: PlatnosciCfg{
			Key1:           v.GetString("PLATNOSCI_KEY1"),
			Key2:           v.GetString("PLATNOSCI_KEY2"),
			PosIDs:         splitList(v.GetString("PLATNOSCI_POS_ID")),
			PosAuthKey:     v.GetString("PLATNOSCI_POS_AUTH_KEY"),
			Encoding:       strings.ToUpper(strings.TrimSpace(v.GetString("PLATNOSCI_ENCODING"))),
			CheckReportSig: v.GetBool("PLATNOSCI_CHECK_REPORT_SIG"),
			HTTPDebug:      v.GetBool("PLATNOSCI_HTTP_DEBUG"),
			Host:           v.GetString("PLATNOSCI_HOST"),
			Timeout:        v.GetDuration("PLATNOSCI_TIMEOUT"),
		},
		Reconcile: ReconcileCfg{
			PollEvery:  v.GetDuration("RECONCILE_POLL_EVERY"),
			Batch:      v.GetInt("RECONCILE_BATCH"),
			RecheckIn:  v.GetDuration("RECONCILE_RECHECK_IN"),
			MaxElapsed: v.GetDuration("RECONCILE_MAX_ELAPSED"),
		},
	}

	// 3) Logging level applies process-wide
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.App.LogLevel).Msg("unknown LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// 4) Fail fast on required settings
	if cfg.App.APIToken == "" {
		log.Fatal().Msg("API_TOKEN is required")
	}
	return cfg
}

// splitList reads "a, b,c" as [a b c], dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
