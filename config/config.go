package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port              int
	MongoURI          string
	MongoDB           string
	JWTKey            string
	Debug             bool
	LogFile           string
	FollowUpHour      int
	CORSOrigins       []string
	BucketDefinitions string
	ChartFont         string
}

// LoadConfig 从环境变量加载配置，存在 .env 文件时先加载
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnvInt("PORT", 8080),
		MongoURI:          getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:           getEnv("MONGO_DB", "crm"),
		JWTKey:            getEnv("JWT_KEY", "your-secret-key"), // 实际环境应替换为安全密钥
		Debug:             getEnv("GIN_MODE", "debug") == "debug",
		LogFile:           getEnv("LOG_FILE", ""),
		FollowUpHour:      getEnvInt("FOLLOWUP_HOUR", 0),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:8000,http://localhost:5173")),
		BucketDefinitions: getEnv("BUCKET_DEFINITIONS", ""),
		ChartFont:         getEnv("CHART_FONT", ""),
	}
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
