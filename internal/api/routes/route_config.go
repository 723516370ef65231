package routes

import (
	"inventory-provision-api/internal/api/handlers"
	"inventory-provision-api/internal/middleware"
	"inventory-provision-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	ItemHandler      handlers.ItemHandler
	ProvisionHandler handlers.ProvisionHandler
	ReportHandler    handlers.ReportHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Items()
	c.Provisions()
	c.Reports()
	c.GuestRoute()
}

func (c *Config) User() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	admin := c.Middleware.AdminMiddleware()

	user := c.App.Group("/api/v1/users")
	{
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", auth, c.UserHandler.Me)
		user.Patch("/me", auth, c.UserHandler.UpdateProfile)
		user.Post("/me/password", auth, c.UserHandler.ChangePassword)
		user.Post("/me/image", auth, c.UserHandler.UploadProfileImage)
		user.Post("/", auth, admin, c.UserHandler.CreateUser)
		user.Get("/", auth, admin, c.UserHandler.ListUsers)
		user.Get("/search", auth, admin, c.UserHandler.SearchUsers)
	}
}

func (c *Config) Items() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	admin := c.Middleware.AdminMiddleware()

	items := c.App.Group("/api/v1/items")
	{
		items.Get("/", auth, c.ItemHandler.GetItems)
		items.Get("/search", auth, c.ItemHandler.SearchItems)
		items.Get("/:item_id", auth, c.ItemHandler.GetItemByID)
		items.Post("/", auth, admin, c.ItemHandler.AddItem)
		items.Patch("/:item_id", auth, admin, c.ItemHandler.EditItem)
	}
}

func (c *Config) Provisions() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	admin := c.Middleware.AdminMiddleware()

	provisions := c.App.Group("/api/v1/provisions")
	{
		provisions.Get("/dashboard", auth, c.ProvisionHandler.Dashboard)
		provisions.Get("/pending", auth, c.ProvisionHandler.ListPending)
		provisions.Get("/approved", auth, c.ProvisionHandler.ListApproved)
		provisions.Post("/request", auth, c.ProvisionHandler.RequestItem)
		provisions.Post("/issue", auth, admin, c.ProvisionHandler.IssueItems)
		provisions.Post("/:provision_id/approve", auth, admin, c.ProvisionHandler.ApproveRequest)
		provisions.Post("/:provision_id/return", auth, admin, c.ProvisionHandler.ReturnItem)
	}
}

func (c *Config) Reports() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	admin := c.Middleware.AdminMiddleware()

	reports := c.App.Group("/api/v1/reports")
	{
		reports.Get("/", auth, admin, c.ReportHandler.GetReport)
		reports.Post("/email", auth, admin, c.ReportHandler.EmailReport)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
