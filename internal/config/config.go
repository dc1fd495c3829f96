package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/grading"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string // sqlite|postgres|memory
	DBDSN    string

	BlobBasePath string

	AuthHMACSecret string
	AdminUser      string
	AdminPassHash  string // bcrypt

	CORSOrigins []string

	LogLevel  string
	LogFormat string // text|json

	// Grading policy defaults; per-snapshot settings override the first two.
	LowAttendanceThreshold float64
	AttendanceTolerance    float64
	FailByAttendance       bool
	PassingScore           float64
	FailingCeiling         float64
}

// LoadDotEnv loads ENV_FILE, or .env when it exists. Variables already set in
// the environment win.
func LoadDotEnv() error {
	if f := os.Getenv("ENV_FILE"); f != "" {
		return godotenv.Load(f)
	}
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}
	return nil
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:           mode,
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		BlobBasePath:   envOr("BLOB_BASE_PATH", "./data"),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "dev-secret-change-me"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogFormat:      envOr("LOG_FORMAT", "text"),

		LowAttendanceThreshold: envFloat("LOW_ATTENDANCE_THRESHOLD", 80),
		AttendanceTolerance:    envFloat("ATTENDANCE_TOLERANCE", 5),
		FailByAttendance:       envBool("FAIL_BY_ATTENDANCE", true),
		PassingScore:           envFloat("PASSING_SCORE", 7),
		FailingCeiling:         envFloat("FAILING_CEILING", 5),
	}
}

// NewLogger builds the process logger from LogLevel and LogFormat. Unknown
// levels fall back to info.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// Policy is the server-wide grading policy; snapshot settings and group
// overrides are applied on top of it.
func (c Config) Policy() grading.Policy {
	return grading.NewPolicy(
		grading.WithPassingScore(c.PassingScore),
		grading.WithLowAttendanceThreshold(c.LowAttendanceThreshold),
		grading.WithAttendanceTolerance(c.AttendanceTolerance),
		grading.WithFailByAttendance(c.FailByAttendance),
		grading.WithFailingCeiling(c.FailingCeiling),
	)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envFloat(k string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(k)), 64)
	if err != nil {
		return def
	}
	return v
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
