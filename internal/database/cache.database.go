package database

import (
	"context"
	"fmt"
	"time"

	"roomlog/config"
	"roomlog/pkg/logger"

	"github.com/valkey-io/valkey-go"
)

type CacheClient valkey.Client

// Valkey database indexes, one per cache category.
const (
	// GENERAL_CACHE_INDEX holds catalog data such as theme statistics.
	GENERAL_CACHE_INDEX = iota
	// USER_CACHE_INDEX holds user lookups used by auth and party resolution.
	USER_CACHE_INDEX
)

type Cache struct {
	General CacheClient
	User    CacheClient
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Error("failed to initialize cache database: address or port is empty")
	}

	initAddress := []string{fmt.Sprintf("%s:%d", address, port)}

	general, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: initAddress,
		SelectDB:    GENERAL_CACHE_INDEX,
	})
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	user, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: initAddress,
		SelectDB:    USER_CACHE_INDEX,
	})
	if err != nil {
		general.Close()
		return log.Err("failed to create user valkey client", err)
	}

	s.Cache = Cache{General: general, User: user}

	if config.DatabaseCacheReset >= 0 {
		go s.Cache.flush(config.DatabaseCacheReset)
	}

	return nil
}

func (c Cache) clients() []struct {
	client CacheClient
	name   string
} {
	return []struct {
		client CacheClient
		name   string
	}{
		{c.General, "General"},
		{c.User, "User"},
	}
}

// flush clears a single cache index at startup when DB_CACHE_RESET names one.
func (c Cache) flush(index int) {
	log := logger.New("database").File("cache.database").Function("flush")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients := c.clients()
	if index < 0 || index >= len(clients) || clients[index].client == nil {
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	client := clients[index].client
	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", clients[index].name)
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cache := range s.Cache.clients() {
		if cache.client == nil {
			continue
		}
		if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("Failed to flush cache database", err, "cache", cache.name)
		}
		log.Info("Flushed cache database", "cache", cache.name)
	}

	return nil
}

func (c Cache) Close() {
	for _, cache := range c.clients() {
		if cache.client != nil {
			cache.client.Close()
		}
	}
}
