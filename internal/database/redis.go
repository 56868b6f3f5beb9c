package database

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// KeyPrefix returns the namespace every redis key carries, so several
// deployments can share one redis instance without colliding.
func KeyPrefix() string {
	viper.SetDefault("redis.key_prefix", "crediflow")
	return viper.GetString("redis.key_prefix")
}

// InitRedis opens the optional redis client backing the payment guard.
// Redis is an accelerator here, not a dependency: when the connection
// fails the caller gets nil and the guard falls back to the database's
// conditional update.
func InitRedis() *redis.Client {
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	addr := viper.GetString("redis.host") + ":" + viper.GetString("redis.port")
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection failed, continuing without Redis: %v", err)
		return nil
	}

	log.Println("Redis connection established")
	return rdb
}
