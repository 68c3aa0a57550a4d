package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/lawbridge/consult-api/controllers"
	"github.com/lawbridge/consult-api/cron"
	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/realtime"
	"github.com/lawbridge/consult-api/redis"
	"github.com/lawbridge/consult-api/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	redis.InitRedis()
	controllers.SetHub(realtime.NewHub(redis.Client))
	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("LawBridge API")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupProfileRoutes(app)
	routes.SetupLawyerRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupNotificationRoutes(app)
	routes.SetupMessageRoutes(app)
	routes.SetupVideoRoutes(app)

	log.Fatal(app.Listen(":8000"))
}
