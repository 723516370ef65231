package config

import (
	"context"
	"os"
	"time"

	"inventory-provision-api/internal/api/handlers"
	"inventory-provision-api/internal/api/routes"
	"inventory-provision-api/internal/middleware"
	"inventory-provision-api/internal/utils"
	"inventory-provision-api/internal/utils/mailing"
	"inventory-provision-api/internal/utils/storage"
	"inventory-provision-api/pkg/item"
	"inventory-provision-api/pkg/jwt"
	"inventory-provision-api/pkg/provision"
	"inventory-provision-api/pkg/report"
	"inventory-provision-api/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewSMTPMailer()

	// Repository
	userRepository := user.NewUserRepository(db)
	itemRepository := item.NewItemRepository(db)
	provisionRepository := provision.NewProvisionRepository(db)
	reportRepository := report.NewReportRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3)
	itemService := item.NewItemService(itemRepository, userRepository, mailer)
	provisionService := provision.NewProvisionService(
		provisionRepository,
		itemRepository,
		userRepository,
		mailer,
	)
	reportService := report.NewReportService(reportRepository, mailer)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	itemHandler := handlers.NewItemHandler(itemService, validator)
	provisionHandler := handlers.NewProvisionHandler(provisionService, validator)
	reportHandler := handlers.NewReportHandler(reportService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		ItemHandler:      itemHandler,
		ProvisionHandler: provisionHandler,
		ReportHandler:    reportHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()

	startOverdueSweep(provisionService)

	return app, nil
}

// startOverdueSweep schedules the overdue reminder mails. The schedule is
// configurable so deployments can pick a quiet hour.
func startOverdueSweep(provisionService provision.ProvisionService) {
	spec := utils.GetConfig("OVERDUE_CRON")
	if spec == "" {
		spec = "0 9 * * *"
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := provisionService.NotifyOverdue(context.Background()); err != nil {
			log.Errorf("overdue sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("error scheduling overdue sweep: %v", err)
	}
	c.Start()
}
