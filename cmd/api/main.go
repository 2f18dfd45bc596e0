package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-helpdesk-api/internal/handler"
	"go-helpdesk-api/internal/middleware"
	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/notify"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/service"
	"go-helpdesk-api/internal/ws"
	"go-helpdesk-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	zapLog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLog.Sync()

	// 2. Migrate, then connect
	if err := database.MigrateUp(database.DSN()); err != nil {
		zapLog.Fatal("migration failed", zap.Error(err))
	}
	db, err := database.ConnectDB()
	if err != nil {
		zapLog.Fatal("database connection failed", zap.Error(err))
	}

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	notifier := notify.NewWebhook(os.Getenv("WEBHOOK_URL"), zapLog)

	// 5. Dependency Injection (Wiring Layers)
	ticketRepo := repository.NewTicketRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ticketService := service.NewTicketService(ticketRepo, wsHub, notifier, zapLog)
	invService := service.NewInventoryService(movementRepo, db, wsHub, notifier, zapLog)
	dashService := service.NewDashboardService(ticketRepo, movementRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	ticketHandler := handler.NewTicketHandler(ticketService)
	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	exportHandler := handler.NewExportHandler(ticketService, invService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Helpdesk IT v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat) // Heartbeat uses Auth but available to all authenticated

	// Ticket submission is public: the form on the intranet does not log in.
	api.Post("/tickets", ticketHandler.CreateTicket)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStats)
	protected.Get("/dashboard/movements", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetMovementSeries)

	// Ticket Routes (with privilege checks)
	protected.Get("/tickets", middleware.RequirePrivilege("ticket:view"), ticketHandler.GetTickets)
	protected.Get("/tickets/:id", middleware.RequirePrivilege("ticket:view"), ticketHandler.GetTicket)
	protected.Put("/tickets/:id/status", middleware.RequirePrivilege("ticket:update_status"), ticketHandler.UpdateTicketStatus)
	protected.Delete("/tickets/:id", middleware.RequirePrivilege("ticket:delete"), ticketHandler.DeleteTicket)

	// Movement Routes (with privilege checks)
	protected.Get("/movements", middleware.RequirePrivilege("stock:view"), invHandler.GetMovements)
	protected.Get("/movements/pending", middleware.RequirePrivilege("stock:view"), invHandler.GetPendingMovements)
	protected.Get("/movements/:id", middleware.RequirePrivilege("stock:view"), invHandler.GetMovement)
	protected.Post("/movements", middleware.RequirePrivilege("stock:record"), invHandler.CreateMovement)
	protected.Put("/movements/:id/approve", middleware.RequirePrivilege("stock:approve"), invHandler.ApproveMovement)
	protected.Delete("/movements/:id", middleware.RequirePrivilege("stock:delete"), invHandler.DeleteMovement)
	protected.Get("/stock", middleware.RequirePrivilege("stock:view"), invHandler.GetStock)

	// Export Routes
	protected.Get("/export/tickets", middleware.RequirePrivilege("export:download"), exportHandler.ExportTickets)
	protected.Get("/export/stock", middleware.RequirePrivilege("export:download"), exportHandler.ExportStock)

	// User Management Routes (with privilege checks)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		roleRepo.ReplacePrivileges(masterRole, allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		roleRepo.ReplacePrivileges(adminRole, adminPrivileges)
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// TECHNICIAN works tickets and records stock, no approvals or exports
	techRole, err := roleRepo.FindByCode(model.RoleTechnician)
	if err == nil && len(techRole.Privileges) == 0 {
		techCodes := map[string]bool{
			"ticket:view":          true,
			"ticket:update_status": true,
			"stock:view":           true,
			"stock:record":         true,
			"dashboard:view":       true,
		}
		techPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if techCodes[p.Code] {
				techPrivileges = append(techPrivileges, p)
			}
		}
		roleRepo.ReplacePrivileges(techRole, techPrivileges)
		log.Println("✅ TECHNICIAN role assigned limited privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Master Administrator",
			Branch:     "HQ",
			RoleID:     &masterRole.ID,
			IsActive:   true,
			Privileges: masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
