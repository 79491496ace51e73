// README: Config loader with env defaults for HTTP, maps, meter, and simulator settings.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type SimConfig struct {
	StartLat    float64
	StartLng    float64
	TickSeconds int
	MinStepKm   float64
	MaxStepKm   float64
}

type Config struct {
	HTTP struct {
		Addr           string
		AllowedOrigins []string
	}
	Maps struct {
		APIKey string
	}
	Meter struct {
		AccuracyLimitM float64
	}
	Sim SimConfig
}

func Load() (Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("TAXIMETER_HTTP_ADDR", ":8080")
	cfg.HTTP.AllowedOrigins = splitCSV(envOrDefault("TAXIMETER_ALLOWED_ORIGINS", "*"))
	cfg.Maps.APIKey = os.Getenv("TAXIMETER_MAPS_API_KEY")
	cfg.Meter.AccuracyLimitM = envOrDefaultFloat("TAXIMETER_ACCURACY_LIMIT_M", 20)
	cfg.Sim.StartLat = envOrDefaultFloat("TAXIMETER_SIM_START_LAT", 11.5936)
	cfg.Sim.StartLng = envOrDefaultFloat("TAXIMETER_SIM_START_LNG", 37.3908)
	cfg.Sim.TickSeconds = envOrDefaultInt("TAXIMETER_SIM_TICK", 1)
	cfg.Sim.MinStepKm = envOrDefaultFloat("TAXIMETER_SIM_MIN_STEP_KM", 0.02)
	cfg.Sim.MaxStepKm = envOrDefaultFloat("TAXIMETER_SIM_MAX_STEP_KM", 0.07)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
