package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// 数据源
const (
	DataSourceMongo  = "mongo"
	DataSourceMemory = "memory"
)

// Config 应用配置
type Config struct {
	Port             int
	MongoURI         string
	MongoDB          string
	JWTKey           string
	Debug            bool
	DataSource       string   // mongo 或 memory
	SeedSampleData   bool     // 启动时写入示例数据
	CertificatePrice string   // 每吨CO2e的欧元价格
	CORSOrigins      []string // 允许的跨域来源
	AdminPassword    string
}

// LoadConfig 从环境变量加载配置，存在.env时先读取
func LoadConfig() *Config {
	// 没有.env文件不算错误
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 {
		port = 8080
	}
	dataSource := strings.ToLower(getEnv("DATA_SOURCE", DataSourceMongo))
	if dataSource != DataSourceMemory {
		dataSource = DataSourceMongo
	}

	return &Config{
		Port:             port,
		MongoURI:         getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:          getEnv("MONGO_DB", "cbam"),
		JWTKey:           getEnv("JWT_KEY", "your-secret-key"), // 实际环境应替换为安全密钥
		Debug:            getEnv("GIN_MODE", "debug") == "debug",
		DataSource:       dataSource,
		SeedSampleData:   getEnvBool("SEED_SAMPLE_DATA", dataSource == DataSourceMemory),
		CertificatePrice: getEnv("CBAM_CERTIFICATE_PRICE", "80"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "admin123"),
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

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
