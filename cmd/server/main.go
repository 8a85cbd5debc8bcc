// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/friendsservice/friendsservice/internal/auth"
	"github.com/friendsservice/friendsservice/internal/cache"
	"github.com/friendsservice/friendsservice/internal/database"
	"github.com/friendsservice/friendsservice/internal/handlers"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		// The friends-list cache is an optimization; the store answers
		// every query without it.
		logger.Warnf("redis unavailable, serving without cache: %v", err)
		cache.Rdb = nil
	}

	store := database.NewFriendshipStore(database.DB)
	accounts := database.NewAccountStore(database.DB)
	srv := handlers.NewServer(store, accounts, logger)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
