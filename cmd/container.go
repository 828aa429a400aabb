// container.go
package main

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/config"
	"github.com/Abraxas-365/talentgate/pkg/iam/access/accessinfra"
	"github.com/Abraxas-365/talentgate/pkg/iam/access/accesssrv"
	"github.com/Abraxas-365/talentgate/pkg/iam/auth"
	"github.com/Abraxas-365/talentgate/pkg/iam/user/userinfra"
	"github.com/Abraxas-365/talentgate/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/talentgate/pkg/logx"
	"github.com/Abraxas-365/talentgate/pkg/notification/notificationinfra"
	"github.com/Abraxas-365/talentgate/pkg/notification/notificationsrv"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription/subscriptionapi"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription/subscriptioninfra"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription/subscriptionsrv"
	"github.com/Abraxas-365/talentgate/pkg/postcommit"
	"github.com/Abraxas-365/talentgate/pkg/postcommit/postcommitinfra"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/applicant/applicantapi"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/applicant/applicantinfra"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/applicant/applicantsrv"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/event/eventapi"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/event/eventinfra"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/event/eventsrv"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/job/jobapi"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/job/jobinfra"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/job/jobsrv"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB    *sqlx.DB
	Redis *redis.Client // nil unless the redis queue backend is selected

	// Access & identity
	Resolver     *accesssrv.Resolver
	TokenService auth.TokenService
	UserService  *usersrv.UserService

	// Domain services
	JobService          *jobsrv.JobService
	EventService        *eventsrv.EventService
	ApplicantService    *applicantsrv.ApplicantService
	SubscriptionService *subscriptionsrv.SubscriptionService
	NotificationService *notificationsrv.NotificationService

	// Post-commit pipeline
	Dispatcher *postcommit.Dispatcher
	Queue      postcommit.Queue

	// API Handlers
	JobHandlers          *jobapi.JobHandlers
	EventHandlers        *eventapi.EventHandlers
	ApplicantHandlers    *applicantapi.ApplicantHandlers
	SubscriptionHandlers *subscriptionapi.SubscriptionHandlers

	// Middleware
	AuthMiddleware *auth.AuthMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initServices()
	c.initHandlers()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("✅ Database connected")

	// 2. Post-commit queue
	c.initQueue()
}

func (c *Container) initQueue() {
	ncfg := c.Config.Notification

	if ncfg.QueueBackend != config.QueueBackendRedis {
		c.Queue = postcommit.NewMemoryQueue(ncfg.QueueBuffer)
		logx.Infof("✅ In-memory post-commit queue (buffer %d)", ncfg.QueueBuffer)
		return
	}

	opts, err := c.Config.Redis.Options()
	if err != nil {
		logx.Fatalf("Invalid Redis configuration: %v", err)
	}
	c.Redis = redis.NewClient(opts)
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required for the redis queue backend)", err)
	}
	logx.Info("✅ Redis connected")

	queue, err := postcommitinfra.NewRedisQueue(context.Background(), c.Redis, ncfg.Stream, ncfg.ConsumerGroup, ncfg.ConsumerName)
	if err != nil {
		logx.Fatalf("Failed to initialize Redis queue: %v", err)
	}
	c.Queue = queue
	logx.Infof("✅ Redis post-commit queue on stream %s", ncfg.Stream)
}

func (c *Container) initServices() {
	logx.Info("⚙️ Initializing services...")

	// Repositories
	accessRepo := accessinfra.NewPostgresAccessRepository(c.DB)
	userRepo := userinfra.NewPostgresUserRepository(c.DB)
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	eventRepo := eventinfra.NewPostgresEventRepository(c.DB)
	applicantRepo := applicantinfra.NewPostgresApplicantRepository(c.DB)
	subscriptionRepo := subscriptioninfra.NewPostgresSubscriptionRepository(c.DB)
	logx.Info("  ✓ Repositories ready")

	// Access & identity
	c.Resolver = accesssrv.NewResolver(accessRepo)
	c.UserService = usersrv.NewUserService(userRepo)
	c.TokenService = auth.NewJWTServiceFromConfig(&c.Config.Auth.JWT)
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService, c.UserService, c.Config.Auth.Cookie.AccessTokenName)

	// Notifications
	engine := notificationsrv.NewTargetingEngine(subscriptionRepo, accessRepo, c.Config.Notification.ReadLegacySubs)
	c.NotificationService = notificationsrv.NewNotificationService(engine, notificationinfra.NewPostgresSink(c.DB))
	c.Dispatcher = postcommit.NewDispatcher(c.Queue, c.Config.Notification.Workers, c.Config.Notification.TaskTimeout)
	publisher := notificationsrv.NewAsyncPublisher(c.Dispatcher, c.NotificationService)
	if !c.Config.Notification.ReadLegacySubs {
		logx.Info("  ✓ Legacy job subscribers ignored")
	}

	// Domain
	c.JobService = jobsrv.NewJobService(jobRepo, c.Resolver)
	c.EventService = eventsrv.NewEventService(eventRepo, c.Resolver)
	c.ApplicantService = applicantsrv.NewApplicantService(applicantRepo, jobRepo, eventRepo, c.Resolver, publisher)
	c.SubscriptionService = subscriptionsrv.NewSubscriptionService(subscriptionRepo, userRepo)
	logx.Info("  ✓ Services ready")
}

func (c *Container) initHandlers() {
	c.JobHandlers = jobapi.NewJobHandlers(c.JobService)
	c.EventHandlers = eventapi.NewEventHandlers(c.EventService)
	c.ApplicantHandlers = applicantapi.NewApplicantHandlers(c.ApplicantService)
	c.SubscriptionHandlers = subscriptionapi.NewSubscriptionHandlers(c.SubscriptionService)
}

// StartBackgroundServices starts the post-commit workers.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	if err := c.Dispatcher.Start(ctx); err != nil {
		logx.Fatalf("Failed to start post-commit dispatcher: %v", err)
	}
	logx.Infof("✅ Post-commit dispatcher started (%d workers)", c.Config.Notification.Workers)
}

// Cleanup drains the dispatcher and closes connections.
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.Dispatcher != nil {
		c.Dispatcher.Stop()
	}
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logx.WithError(err).Error("Error closing queue")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.WithError(err).Error("Error closing Redis")
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.WithError(err).Error("Error closing database")
		}
	}

	logx.Info("✅ Cleanup completed")
}
