package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URI             string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	DatabaseName    string
	RetryWrites     bool
	// OperationTimeout bounds every single store call.
	OperationTimeout time.Duration
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "momentum")
	v.SetDefault("MONGO_MAX_POOL_SIZE", 100)
	v.SetDefault("MONGO_MIN_POOL_SIZE", 10)
	v.SetDefault("MONGO_MAX_CONN_IDLE_TIME", 60*time.Second)
	v.SetDefault("MONGO_RETRY_WRITES", true)
	v.SetDefault("MONGO_OP_TIMEOUT", 5*time.Second)
}

func LoadDatabaseConfig(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		URI:              v.GetString("MONGO_URI"),
		MaxPoolSize:      v.GetUint64("MONGO_MAX_POOL_SIZE"),
		MinPoolSize:      v.GetUint64("MONGO_MIN_POOL_SIZE"),
		MaxConnIdleTime:  getDuration(v, "MONGO_MAX_CONN_IDLE_TIME"),
		DatabaseName:     v.GetString("MONGO_DB"),
		RetryWrites:      v.GetBool("MONGO_RETRY_WRITES"),
		OperationTimeout: getDuration(v, "MONGO_OP_TIMEOUT"),
	}
}
