package main

import (
	"log"
	"os"

	_ "sgflota/api/swagger" // swagger docs
	"sgflota/internal/database"
	"sgflota/internal/handler"
	"sgflota/internal/middleware"
	"sgflota/internal/repository"
	"sgflota/internal/service"
	"sgflota/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           SGFlota API
// @version         1.0
// @description     Fleet rental management API: vehicles, rentals, billing, payments and third-party settlements.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "sgflota"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	payableRepo := repository.NewPayableRepository(db)
	rentalRepo := repository.NewRentalRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	userRepo := repository.NewUserRepository(db)

	billingService := service.NewBillingService(invoiceRepo, paymentRepo, payableRepo, txManager, wsHub)
	invoiceService := service.NewInvoiceService(invoiceRepo, paymentRepo)
	rentalService := service.NewRentalService(rentalRepo, vehicleRepo, invoiceRepo, payableRepo, refundRepo, txManager, db, wsHub)
	refundService := service.NewRefundService(refundRepo, invoiceRepo, expenseRepo, txManager, wsHub)
	payableService := service.NewPayableService(payableRepo, expenseRepo, txManager, wsHub)
	vehicleService := service.NewVehicleService(vehicleRepo, rentalRepo, wsHub)
	clientService := service.NewClientService(db)
	maintenanceService := service.NewMaintenanceService(db, txManager, wsHub)
	expenseService := service.NewExpenseService(expenseRepo, wsHub)
	personnelService := service.NewPersonnelService(db, txManager)
	partnerService := service.NewPartnerService(db)
	userService := service.NewUserService(userRepo)
	settingsService := service.NewSettingsService(db)
	reportService := service.NewReportService(db)
	requestService := service.NewRequestService(db, wsHub)

	// Initialize Handlers
	billingHandler := handler.NewBillingHandler(billingService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	rentalHandler := handler.NewRentalHandler(rentalService)
	refundHandler := handler.NewRefundHandler(refundService)
	payableHandler := handler.NewPayableHandler(payableService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	clientHandler := handler.NewClientHandler(clientService)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	personnelHandler := handler.NewPersonnelHandler(personnelService)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	userHandler := handler.NewUserHandler(userService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	reportHandler := handler.NewReportHandler(reportService)
	requestHandler := handler.NewRequestHandler(requestService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	billingHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	rentalHandler.RegisterRoutes(router.Group(""))
	refundHandler.RegisterRoutes(router.Group(""))
	payableHandler.RegisterRoutes(router.Group(""))
	vehicleHandler.RegisterRoutes(router.Group(""))
	clientHandler.RegisterRoutes(router.Group(""))
	maintenanceHandler.RegisterRoutes(router.Group(""))
	expenseHandler.RegisterRoutes(router.Group(""))
	personnelHandler.RegisterRoutes(router.Group(""))
	partnerHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	settingsHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	requestHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
