package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HavenSelph/NamelessBot/bot"
	"github.com/HavenSelph/NamelessBot/cache"
	"github.com/HavenSelph/NamelessBot/config"
	"github.com/HavenSelph/NamelessBot/db"
	"github.com/HavenSelph/NamelessBot/mapimg"
	"github.com/HavenSelph/NamelessBot/playerdb"
	"github.com/HavenSelph/NamelessBot/rcon"
	"github.com/HavenSelph/NamelessBot/server"
	"github.com/HavenSelph/NamelessBot/watcher"
	"github.com/HavenSelph/NamelessBot/whitelist"
)

func init() {
	// Set up logrus logger
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

func main() {
	c, err := config.Load()
	if err != nil {
		log.Fatal("Unable to load config: " + err.Error())
	}
	// Watch for config file changes and re-validate values
	watcher.WatchConfig(log.StandardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect to db
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.MongodbConnStr))
	if err != nil {
		log.Fatal("Unable to connect to mongodb: " + err.Error())
	}
	defer client.Disconnect(context.Background())
	dbSvc := db.NewService(client, c.MongodbDatabase)
	if err := dbSvc.Ping(ctx); err != nil {
		log.Fatal("Unable to reach mongodb: " + err.Error())
	}
	log.Info("Mongodb connection established")

	// Optional redis cache in front of the account resolver
	var profileCache playerdb.ProfileCache
	if c.RedisConnStr != "" {
		cacheSvc, err := cache.NewService(c.RedisConnStr, c.CacheTTL, log.WithField("origin", "cache"))
		if err != nil {
			log.Fatal("Unable to connect to redis: " + err.Error())
		}
		log.Info("Redis connection established")
		defer cacheSvc.Close()
		profileCache = cacheSvc
	}
	resolver := playerdb.NewClient(c.PlayerDBBaseURL, profileCache, log.WithField("origin", "playerdb"))

	// Optional whitelist reload push to the game server after each flush
	var reloader whitelist.Reloader
	if c.RconEnabled {
		reloader = rcon.NewWhitelistReloader(c.RconAddress, c.RconPassword)
	}

	whitelistSvc := whitelist.NewService(dbSvc, resolver, reloader, c.WhitelistPath, log.WithField("origin", "whitelist"))

	var maps *mapimg.Generator
	if c.MapBaseURL != "" {
		maps = mapimg.NewGenerator(c.MapBaseURL, c.MapFrameAsset, log.WithField("origin", "mapimg"))
	}

	botSvc, err := bot.NewService(c.BotToken, c.GuildID, whitelistSvc, maps, log.WithField("origin", "bot"))
	if err != nil {
		log.Fatal("Unable to create discord session: " + err.Error())
	}
	if err := botSvc.Open(); err != nil {
		log.Fatal("Unable to connect to discord: " + err.Error())
	}
	log.Info("Discord connection established")
	defer botSvc.Close()

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go whitelistSvc.RunSync(runCtx, c.SyncInterval)
	go whitelistSvc.RunAudit(runCtx, botSvc, c.AuditInterval)

	// Set up http REST API server
	httpServer := server.NewService(whitelistSvc, log.WithField("origin", "server"))
	go func() {
		if err := httpServer.Listen(c.APIPort); err != nil {
			log.Fatal("Unable to serve http: " + err.Error())
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("Shutting down")
	stop()
	httpServer.Shutdown()
}
