package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "DB_DRIVER", "JUDGE0_API_URL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.Judge0URL != "https://judge0-ce.p.rapidapi.com" {
		t.Errorf("Judge0URL = %q", cfg.Judge0URL)
	}
	if len(cfg.CORSOrigins) != 4 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" || cfg.DBDriver != "postgres" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}
