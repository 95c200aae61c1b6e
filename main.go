package main

import (
	"net/http"
	"os"
	"time"

	logger "github.com/Financial-Times/go-logger"
	"github.com/gorilla/mux"
	cli "github.com/jawher/mow.cli"
	_ "github.com/joho/godotenv/autoload"

	"github.com/firmify/board-candidate-screener/archive"
	"github.com/firmify/board-candidate-screener/cache"
	"github.com/firmify/board-candidate-screener/registry"
	"github.com/firmify/board-candidate-screener/roles"
	"github.com/firmify/board-candidate-screener/screening"
)

const appDescription = "Screens the public business registry for companies and board candidates matching geographic, industry, size and sector filters."

func main() {

	app := cli.App("board-candidate-screener", appDescription)

	appSystemCode := app.String(cli.StringOpt{
		Name:   "appSystemCode",
		Value:  "board-candidate-screener",
		Desc:   "System code of the application",
		EnvVar: "APP_SYSTEM_CODE",
	})

	appName := app.String(cli.StringOpt{
		Name:   "appName",
		Value:  "board-candidate-screener",
		Desc:   "Name of the application",
		EnvVar: "APP_NAME",
	})

	port := app.String(cli.StringOpt{
		Name:   "port",
		Value:  "8080",
		Desc:   "Port to listen on",
		EnvVar: "APP_PORT",
	})

	registryAPIURL := app.String(cli.StringOpt{
		Name:   "registryApiUrl",
		Value:  "https://data.brreg.no/enhetsregisteret/api",
		Desc:   "Base URL of the business registry API",
		EnvVar: "REGISTRY_API_URL",
	})

	redisURL := app.String(cli.StringOpt{
		Name:   "redisUrl",
		Value:  "",
		Desc:   "Redis URL for the role document cache; empty uses an in-memory cache",
		EnvVar: "REDIS_URL",
	})

	cacheTTL := app.Int(cli.IntOpt{
		Name:   "cacheTtlMinutes",
		Value:  60,
		Desc:   "TTL in minutes for cached role documents",
		EnvVar: "CACHE_TTL_MINUTES",
	})

	archiveBucket := app.String(cli.StringOpt{
		Name:   "archiveBucket",
		Value:  "",
		Desc:   "S3 bucket for archived role documents; empty disables the archive",
		EnvVar: "ARCHIVE_BUCKET",
	})

	awsRegion := app.String(cli.StringOpt{
		Name:   "awsRegion",
		Value:  "eu-west-1",
		Desc:   "AWS region of the archive bucket",
		EnvVar: "AWS_REGION",
	})

	pageSize := app.Int(cli.IntOpt{
		Name:   "pageSize",
		Value:  200,
		Desc:   "Page size for registry unit searches",
		EnvVar: "PAGE_SIZE",
	})

	requestTimeout := app.Int(cli.IntOpt{
		Name:   "requestTimeoutSeconds",
		Value:  30,
		Desc:   "Timeout in seconds for screening requests",
		EnvVar: "REQUEST_TIMEOUT_SECONDS",
	})

	logLevel := app.String(cli.StringOpt{
		Name:   "logLevel",
		Value:  "info",
		Desc:   "Log level",
		EnvVar: "LOG_LEVEL",
	})

	requestLoggingEnabled := app.Bool(cli.BoolOpt{
		Name:   "requestLoggingEnabled",
		Value:  true,
		Desc:   "Whether inbound requests are logged",
		EnvVar: "REQUEST_LOGGING_ENABLED",
	})

	app.Action = func() {
		logger.InitLogger(*appSystemCode, *logLevel)
		logger.Infof("[Startup] %s is starting", *appSystemCode)

		registryClient, err := registry.NewClient(*registryAPIURL)
		if err != nil {
			logger.WithError(err).Fatal("Error creating registry client")
		}

		rolesClient, err := roles.NewClient(*registryAPIURL)
		if err != nil {
			logger.WithError(err).Fatal("Error creating roles client")
		}

		var documentCache cache.Cache
		if *redisURL != "" {
			redisCache, err := cache.NewRedisCache(*redisURL)
			if err != nil {
				logger.WithError(err).Fatal("Error creating Redis cache")
			}
			documentCache = redisCache
		} else {
			logger.Info("No Redis URL configured, using in-memory role document cache")
			documentCache = cache.NewMemoryCache()
		}

		var archiveClient archive.Client
		if *archiveBucket != "" {
			archiveClient, err = archive.NewClient(*archiveBucket, *awsRegion)
			if err != nil {
				logger.WithError(err).Fatal("Error creating archive client")
			}
		} else {
			logger.Info("No archive bucket configured, role document archive disabled")
		}

		svc := screening.NewService(
			registryClient,
			rolesClient,
			documentCache,
			archiveClient,
			*pageSize,
			time.Duration(*cacheTTL)*time.Minute,
		)

		handler := screening.NewHandler(svc, time.Duration(*requestTimeout)*time.Second)
		healthService := screening.NewHealthService(svc, *appSystemCode, *appName, appDescription)

		router := mux.NewRouter()
		handler.RegisterHandlers(router)
		serveMux := handler.RegisterAdminHandlers(router, healthService, *requestLoggingEnabled)

		logger.Infof("Listening on %v", *port)
		if err := http.ListenAndServe(":"+*port, serveMux); err != nil {
			logger.WithError(err).Fatal("Unable to start server")
		}
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("App could not start")
	}
}
