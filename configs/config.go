package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver  string
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	UploadDir    string
	EnhanceDelay time.Duration // เวลาหน่วงของ enhancement worker (จำลองงาน AI)
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBDriver:     getEnv("DB_DRIVER", "sqlite"),
		DBSource:     getEnv("DB_SOURCE", "backoffice.db"),
		Port:         getEnv("PORT", "8000"),
		JWTSecret:    getEnv("JWT_SECRET", "changeme"),
		JWTTTL:       time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
		EnhanceDelay: time.Duration(getEnvInt("ENHANCE_DELAY_MS", 3000)) * time.Millisecond,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// Helper เผื่อไฟล์อื่นต้องใช้ (เช่น seed)
func MustGetEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		log.Fatalf("missing env: %s", key)
	}
	return v
}
