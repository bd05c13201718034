package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RichardKnop/machinery/v1"
	machineryconf "github.com/RichardKnop/machinery/v1/config"
	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/bitmark-inc/geosubmit-api/api"
	"github.com/bitmark-inc/geosubmit-api/queue"
	"github.com/bitmark-inc/geosubmit-api/store"
	"github.com/bitmark-inc/geosubmit-api/submit"
)

var (
	server        *api.Server
	ormDB         *gorm.DB
	redisClient   *redis.Client
	metricsCloser io.Closer
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("geosubmit")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setConfigDefaults()
}

func newRedisClient(cfg redisConfig) (*redis.Client, error) {
	if cfg.Conn != "" {
		opts, err := redis.ParseURL(cfg.Conn)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}

	return redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	}), nil
}

func newQueue(cfg *config) (submit.Queue, error) {
	switch cfg.Queue.Backend {
	case backendMachinery:
		machineryServer, err := machinery.NewServer(&machineryconf.Config{
			Broker:        cfg.Redis.Conn,
			DefaultQueue:  "geosubmit_incoming",
			ResultBackend: cfg.Redis.Conn,
		})
		if err != nil {
			return nil, err
		}
		return queue.NewTaskQueue(machineryServer, cfg.Queue.Task), nil
	default:
		client, err := newRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		redisClient = client
		return queue.NewRedisQueue(client, cfg.Queue.Key, cfg.Queue.Expire), nil
	}
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown geosubmit api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if metricsCloser != nil {
			if err := metricsCloser.Close(); err != nil {
				log.Error(err)
			}
		}

		if redisClient != nil {
			log.Info("Closing redis client")
			if err := redisClient.Close(); err != nil {
				log.Error(err)
			}
		}

		if ormDB != nil {
			log.Info("Shutting down db store")
			if err := ormDB.Close(); err != nil {
				log.Error(err)
			}
		}

		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	cfg, err := readConfig()
	if err != nil {
		log.Panic(err)
	}

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	// Api key store is optional
	var keyStore store.APIKeyStore
	if cfg.ORM != "" {
		ormDB, err = gorm.Open("postgres", cfg.ORM)
		if err != nil {
			log.Panic(err)
		}

		s := store.NewGeoSubmitStore(ormDB)
		if err := s.Migrate(); err != nil {
			log.Panic(err)
		}
		keyStore = s
		log.WithField("prefix", "init").Info("Initialized api key store")
	}

	q, err := newQueue(cfg)
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").WithField("backend", cfg.Queue.Backend).Info("Initialized queue")

	metrics, metricsHandler, closer := api.NewMetrics("geosubmit")
	metricsCloser = closer

	// Init http server
	server = api.NewServer(keyStore, q, metrics, metricsHandler)
	log.WithField("prefix", "init").Info("Initialized http server")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	log.Fatal(server.Run(":" + cfg.Server.Port))
}
