package observability

import (
	"testing"
	"time"

	"github.com/riskibarqy/sports-calendar/internal/config"
	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
)

func TestInitPyroscope_Disabled(t *testing.T) {
	t.Parallel()

	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestProfilerConfig_TagsService(t *testing.T) {
	t.Parallel()

	got := profilerConfig(config.Config{
		AppEnv:                 config.EnvProd,
		ServiceName:            "sports-calendar-api",
		ServiceVersion:         "1.4.0",
		PyroscopeAppName:       "sports-calendar",
		PyroscopeServerAddress: "http://pyroscope.test",
		PyroscopeUploadRate:    15 * time.Second,
	})

	if got.ApplicationName != "sports-calendar" || got.ServerAddress != "http://pyroscope.test" {
		t.Fatalf("unexpected target: %+v", got)
	}
	if got.Tags["env"] != config.EnvProd || got.Tags["service"] != "sports-calendar-api" || got.Tags["version"] != "1.4.0" {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}
	if len(got.ProfileTypes) != len(profileTypes) {
		t.Fatalf("unexpected profile types: %v", got.ProfileTypes)
	}
}
