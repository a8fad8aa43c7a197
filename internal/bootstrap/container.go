package bootstrap

import (
	"context"
	"log"
	"time"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/controller"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/mailer"
	"notekeeper-be/internal/pkg/storage"
	"notekeeper-be/internal/repository/memory"
	"notekeeper-be/internal/repository/redisstore"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/service"
	"notekeeper-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	activityTopic = "note_activity"
	webSessionTTL = time.Hour
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	NoteController controller.INoteController
	WebController  controller.IWebController

	// Background services, exposed for main.go to run
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	fileStorage, err := storage.NewDiskStorage(cfg.App.UploadDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize upload storage: %v", err)
	}

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Web session store: Redis when configured, in-process otherwise
	var sessions store.SessionStore
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessions = redisstore.NewSessionRepository(rdb, webSessionTTL)
		log.Println("[INFO] Using Session Store: REDIS")
	} else {
		sessions = memory.NewSessionRepository(webSessionTTL)
		log.Println("[INFO] Using Session Store: IN-MEMORY")
	}

	// 4. Services
	publisherService := service.NewPublisherService(activityTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, activityTopic, sysLogger)

	authService := service.NewAuthService(uowFactory, emailService, publisherService, sysLogger, cfg.App.BaseURL)
	noteService := service.NewNoteService(uowFactory, fileStorage, publisherService, sysLogger)

	// 5. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		NoteController:  controller.NewNoteController(noteService),
		WebController:   controller.NewWebController(authService, noteService, sessions, fileStorage),
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
