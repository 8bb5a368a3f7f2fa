// Package server implements the krona server command.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	billingusecases "krona/internal/application/billing/usecases"
	merchantusecases "krona/internal/application/merchant/usecases"
	"krona/internal/application/notification"
	subscriptionusecases "krona/internal/application/subscription/usecases"
	"krona/internal/infrastructure/config"
	"krona/internal/infrastructure/database"
	"krona/internal/infrastructure/email"
	"krona/internal/infrastructure/migration"
	"krona/internal/infrastructure/payment"
	"krona/internal/infrastructure/persistence/models"
	"krona/internal/infrastructure/repository"
	"krona/internal/infrastructure/scheduler"
	httprouter "krona/internal/interfaces/http"
	"krona/internal/interfaces/http/handlers"
	"krona/internal/shared/biztime"
	"krona/internal/shared/constants"
	"krona/internal/shared/db"
	"krona/internal/shared/logger"
	"krona/internal/shared/services/markdown"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the krona HTTP server with the configured billing scheduler.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, env == constants.EnvDevelopment); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting server", "environment", env, "auto_migrate", autoMigrate)

	if err := biztime.Init(cfg.Billing.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if env == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == constants.EnvProduction {
			log.Warnw("auto-migration is enabled in production environment")
		}
		manager := migration.NewManager(env)
		if err := manager.Migrate(database.Get(),
			&models.MerchantModel{},
			&models.PlanModel{},
			&models.SubscriptionModel{},
			&models.PlanAssignmentModel{},
			&models.BillingTransactionModel{},
			&models.BillingSequenceModel{},
		); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	gormDB := database.Get()
	txManager := db.NewTransactionManager(gormDB)

	merchantRepo := repository.NewMerchantRepository(gormDB, log)
	planRepo := repository.NewPlanRepository(gormDB, log)
	subscriptionRepo := repository.NewSubscriptionRepository(gormDB, log)
	assignmentRepo := repository.NewPlanAssignmentRepository(gormDB, log)
	transactionRepo := repository.NewBillingTransactionRepository(gormDB, log)
	sequenceAllocator := repository.NewBillingSequenceAllocator(gormDB, log)

	gateway, err := newNotificationGateway(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build notification gateway: %w", err)
	}
	verifier := payment.NewHTTPVerifier(cfg.Billing, log)

	// Subscription use cases.
	applyAssignmentUC := subscriptionusecases.NewApplyAssignmentUseCase(
		txManager, merchantRepo, planRepo, subscriptionRepo, assignmentRepo, log)
	assignPlanUC := subscriptionusecases.NewAssignPlanUseCase(
		merchantRepo, planRepo, assignmentRepo, applyAssignmentUC, log)
	resolveSubscriptionUC := subscriptionusecases.NewResolveSubscriptionUseCase(
		merchantRepo, subscriptionRepo, planRepo, log)
	getTrialStatusUC := subscriptionusecases.NewGetTrialStatusUseCase(resolveSubscriptionUC, log)
	createPlanUC := subscriptionusecases.NewCreatePlanUseCase(planRepo, log)
	updatePlanUC := subscriptionusecases.NewUpdatePlanUseCase(planRepo, log)
	updatePlanStatusUC := subscriptionusecases.NewUpdatePlanStatusUseCase(planRepo, log)
	getPlanUC := subscriptionusecases.NewGetPlanUseCase(planRepo, log)
	listPlansUC := subscriptionusecases.NewListPlansUseCase(planRepo, log)
	deletePlanUC := subscriptionusecases.NewDeletePlanUseCase(planRepo, subscriptionRepo, log)
	listPlanMembersUC := subscriptionusecases.NewListPlanMembersUseCase(
		planRepo, subscriptionRepo, merchantRepo, log)

	// Merchant use cases.
	createMerchantUC := merchantusecases.NewCreateMerchantUseCase(merchantRepo, log)
	getMerchantUC := merchantusecases.NewGetMerchantUseCase(merchantRepo, log)
	listMerchantsUC := merchantusecases.NewListMerchantsUseCase(merchantRepo, log)

	// Billing use cases.
	createTransactionUC := billingusecases.NewCreateTransactionUseCase(
		txManager, transactionRepo, sequenceAllocator, merchantRepo, planRepo, log)
	updateTransactionStatusUC := billingusecases.NewUpdateTransactionStatusUseCase(transactionRepo, log)
	listTransactionsUC := billingusecases.NewListTransactionsUseCase(
		transactionRepo, merchantRepo, planRepo, log)
	verifyPaymentUC := billingusecases.NewVerifyPaymentUseCase(
		txManager, transactionRepo, merchantRepo, planRepo, subscriptionRepo, verifier, assignPlanUC, log)

	// Lifecycle jobs.
	cleanupAssignmentsUC := subscriptionusecases.NewCleanupStaleAssignmentsUseCase(assignmentRepo, log)
	expireTransactionsUC := billingusecases.NewExpireStaleTransactionsUseCase(transactionRepo, log)
	notifyExpiringUC := subscriptionusecases.NewNotifyExpiringSubscriptionsUseCase(
		subscriptionRepo, merchantRepo, planRepo, gateway, log)
	expireSubscriptionsUC := subscriptionusecases.NewExpireSubscriptionsUseCase(
		subscriptionRepo, merchantRepo, planRepo, gateway, log)

	var schedulerManager *scheduler.Manager
	if cfg.Scheduler.Enabled {
		lockTTL := time.Duration(cfg.Scheduler.LockTTLMinutes) * time.Minute
		if lockTTL <= 0 {
			lockTTL = 15 * time.Minute
		}
		lock := scheduler.NewJobLock(redisClient, lockTTL, log)

		schedulerManager, err = scheduler.NewManager(lock, log)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := schedulerManager.RegisterMaintenanceJobs(
			cleanupAssignmentsUC,
			expireTransactionsUC,
			notifyExpiringUC,
			expireSubscriptionsUC,
		); err != nil {
			return fmt.Errorf("failed to register scheduled jobs: %w", err)
		}
		schedulerManager.Start()
		defer func() {
			if err := schedulerManager.Stop(); err != nil {
				log.Errorw("failed to stop scheduler", "error", err)
			}
		}()
	} else {
		log.Infow("scheduler disabled, lifecycle jobs will only run via the admin endpoints")
	}

	router := httprouter.NewRouter(httprouter.Handlers{
		Plan: handlers.NewPlanHandler(
			createPlanUC, updatePlanUC, updatePlanStatusUC,
			getPlanUC, listPlansUC, deletePlanUC, listPlanMembersUC),
		Merchant: handlers.NewMerchantHandler(
			createMerchantUC, getMerchantUC, listMerchantsUC,
			resolveSubscriptionUC, getTrialStatusUC),
		Assignment: handlers.NewAssignmentHandler(assignPlanUC, applyAssignmentUC),
		Transaction: handlers.NewTransactionHandler(
			createTransactionUC, updateTransactionStatusUC, listTransactionsUC, verifyPaymentUC),
		Job: handlers.NewJobHandler(
			cleanupAssignmentsUC, expireTransactionsUC, notifyExpiringUC, expireSubscriptionsUC),
	}, cfg, log)
	router.SetupRoutes(cfg)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "address", cfg.Server.GetAddr())

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// initRedis connects to Redis for the scheduler job lease. A missing Redis is
// tolerated: the scheduler then runs without cross-instance locking.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	if cfg.Redis.Host == "" {
		log.Infow("redis not configured, scheduler runs without job lease")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("failed to connect to redis, scheduler runs without job lease", "error", err)
		client.Close()
		return nil
	}

	log.Infow("redis connection established")
	return client
}

// newNotificationGateway builds the SMTP gateway, or the noop gateway when
// notifications are disabled.
func newNotificationGateway(cfg *config.Config, log logger.Interface) (notification.Gateway, error) {
	if !cfg.Notification.Enabled {
		log.Infow("notifications disabled, using noop gateway")
		return notification.NewNoopGateway(), nil
	}

	templates, err := email.LoadTemplates(cfg.Notification.TemplatesPath, log)
	if err != nil {
		return nil, err
	}
	sender := email.NewSMTPSender(cfg.Email)

	return email.NewGateway(sender, templates, markdown.NewService(), cfg.Notification, log), nil
}
