package api

import (
	"github.com/gin-gonic/gin"

	"parking_manager/internal/api/handler"
	"parking_manager/internal/api/middleware"
	"parking_manager/internal/domain"
	"parking_manager/internal/service"
)

func SetupRouter(
	authService *service.AuthService,
	parkingService *service.ParkingService,
	allocationService *service.AllocationService,
	ticketService *service.TicketService,
	authMw *middleware.AuthMiddleware,
	hub *handler.AvailabilityHub,
) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Availability feed; connecting does not require auth.
	wsHandler := handler.NewWebSocketHandler(hub)
	r.GET("/ws", wsHandler.HandleWebSocket)

	authHandler := handler.NewAuthHandler(authService)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		userRoutes := v1.Group("/users")
		userRoutes.Use(authMw.AuthorizeRole(domain.RoleAdmin))
		{
			userRoutes.GET("", authHandler.GetAllUsers)
			userRoutes.GET("/:id", authHandler.GetUserByID)
		}

		areaH := handler.NewAreaHandler(parkingService, allocationService)
		areaRoutes := v1.Group("/areas")
		{
			areaRoutes.POST("", authMw.AuthorizeRole(domain.RoleAdmin), areaH.CreateArea)
			areaRoutes.GET("", areaH.GetAllAreas)
			areaRoutes.GET("/:id", areaH.GetAreaByID)
			areaRoutes.PUT("/:id", authMw.AuthorizeRole(domain.RoleAdmin), areaH.UpdateArea)
			areaRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), areaH.DeleteArea)
			areaRoutes.POST("/allocate", areaH.AllocateCapacity)
			areaRoutes.POST("/:id/allocate", areaH.AllocateCapacityFromArea)
			areaRoutes.POST("/:id/release", areaH.ReleaseCapacity)
		}

		parkingH := handler.NewParkingHandler(parkingService)
		parkingRoutes := v1.Group("/parkings")
		{
			parkingRoutes.POST("", parkingH.CreateParking)
			parkingRoutes.GET("", parkingH.GetAllParkings)
			parkingRoutes.GET("/:id", parkingH.GetParkingByID)
			parkingRoutes.PUT("/:id", parkingH.UpdateParking)
			parkingRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), parkingH.DeleteParking)
		}

		sectionH := handler.NewSectionHandler(parkingService)
		sectionRoutes := v1.Group("/sections")
		{
			sectionRoutes.POST("", sectionH.CreateSection)
			sectionRoutes.GET("", sectionH.GetAllSections)
			sectionRoutes.GET("/:id", sectionH.GetSectionByID)
			sectionRoutes.PUT("/:id", sectionH.UpdateSection)
			sectionRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), sectionH.DeleteSection)
		}

		slotH := handler.NewSlotHandler(parkingService)
		slotRoutes := v1.Group("/slots")
		{
			slotRoutes.POST("", authMw.AuthorizeRole(domain.RoleAdmin), slotH.CreateSlot)
			slotRoutes.GET("", slotH.GetAllSlots)
			slotRoutes.GET("/:id", slotH.GetSlotByID)
			slotRoutes.PUT("/:id", authMw.AuthorizeRole(domain.RoleAdmin), slotH.UpdateSlot)
			slotRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), slotH.DeleteSlot)
		}

		priceH := handler.NewPriceHandler(parkingService)
		priceRoutes := v1.Group("/prices")
		{
			priceRoutes.POST("", authMw.AuthorizeRole(domain.RoleAdmin), priceH.CreatePrice)
			priceRoutes.GET("", priceH.GetAllPrices)
			priceRoutes.GET("/:id", priceH.GetPriceByID)
			priceRoutes.PUT("/:id", authMw.AuthorizeRole(domain.RoleAdmin), priceH.UpdatePrice)
			priceRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), priceH.DeletePrice)
		}

		vehicleH := handler.NewVehicleHandler(ticketService)
		vehicleRoutes := v1.Group("/vehicles")
		{
			vehicleRoutes.POST("", vehicleH.CreateVehicle)
			vehicleRoutes.GET("", vehicleH.GetAllVehicles)
			vehicleRoutes.GET("/:id", vehicleH.GetVehicleByID)
			vehicleRoutes.PUT("/:id", vehicleH.UpdateVehicle)
			vehicleRoutes.DELETE("/:id", vehicleH.DeleteVehicle)
		}

		passH := handler.NewPassHandler(ticketService)
		passRoutes := v1.Group("/passes")
		{
			passRoutes.POST("", passH.CreatePass)
			passRoutes.GET("", passH.GetAllPasses)
			passRoutes.GET("/:id", passH.GetPassByID)
			passRoutes.PUT("/:id", passH.UpdatePass)
			passRoutes.DELETE("/:id", passH.DeletePass)
		}

		ticketH := handler.NewTicketHandler(ticketService)
		ticketRoutes := v1.Group("/tickets")
		{
			ticketRoutes.POST("", ticketH.CreateTicket)
			ticketRoutes.GET("", ticketH.GetAllTickets)
			ticketRoutes.GET("/:id", ticketH.GetTicketByID)
			ticketRoutes.POST("/:id/checkout", ticketH.CheckoutTicket)
			ticketRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), ticketH.DeleteTicket)
		}
	}

	return r
}
