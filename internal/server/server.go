package server

import (
	"shop-backend/internal/handler"
	mw "shop-backend/internal/middleware"
	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	cartHandler     *handler.CartHandler
	favoriteHandler *handler.FavoriteHandler
	orderHandler    *handler.OrderHandler
	sessionHandler  *handler.SessionHandler
	jwtSecret       string
}

func NewServer(
	cartService service.CartService,
	favoriteService service.FavoriteService,
	orderService service.OrderService,
	mergeService service.MergeService,
	jwtSecret string,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		cartHandler:     handler.NewCartHandler(cartService),
		favoriteHandler: handler.NewFavoriteHandler(favoriteService),
		orderHandler:    handler.NewOrderHandler(orderService),
		sessionHandler:  handler.NewSessionHandler(mergeService),
		jwtSecret:       jwtSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api", mw.Auth(s.jwtSecret))

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- cart --------
	cart := api.Group("/cart", mw.Session())
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.PUT("/items/:productID", s.cartHandler.UpdateItem)
	cart.DELETE("/items/:productID", s.cartHandler.RemoveItem)
	cart.DELETE("", s.cartHandler.Clear)

	// -------- favorites --------
	favorites := api.Group("/favorites", mw.Session())
	favorites.GET("", s.favoriteHandler.GetFavorites)
	favorites.POST("/items", s.favoriteHandler.AddItem)
	favorites.DELETE("/items/:productID", s.favoriteHandler.RemoveItem)
	favorites.DELETE("", s.favoriteHandler.Clear)

	// -------- session claim (post-login merge) --------
	api.POST("/session/claim", s.sessionHandler.Claim, mw.RequireAccount())

	// -------- orders --------
	orders := api.Group("/orders", mw.RequireAccount())
	orders.POST("", s.orderHandler.Checkout)
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:id", s.orderHandler.GetOrder)
	orders.POST("/:id/cancel", s.orderHandler.Cancel)

	// -------- admin --------
	admin := api.Group("/admin", mw.RequireAccount(), mw.RequireAdmin())
	admin.GET("/orders", s.orderHandler.ListAll)
	admin.PATCH("/orders/:id/status", s.orderHandler.UpdateStatus)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
