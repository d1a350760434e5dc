package routes

import (
	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/handlers"
	"gizmohub_back_end/internal/handlers/admin"
	"gizmohub_back_end/internal/handlers/checkout"
	"gizmohub_back_end/internal/handlers/product"
	"gizmohub_back_end/internal/handlers/user"
	"gizmohub_back_end/internal/middleware"
)

type Handlers struct {
	Auth       *user.AuthHandler
	Cart       *user.CartHandler
	CartSocket *user.CartSocket
	Orders     *user.OrderHandler
	Catalog    *product.CatalogHandler
	Payments   *checkout.PaymentHandler
	Dashboard  *admin.DashboardHandler
	Health     gin.HandlerFunc
}

// Middleware holds the request guards. The rate limiters are nil without Redis.
type Middleware struct {
	Auth            gin.HandlerFunc
	LoginLimit      gin.HandlerFunc
	AdminLoginLimit gin.HandlerFunc
	RegisterLimit   gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, h Handlers, mw Middleware) {
	r.GET("/", handlers.Root)
	r.GET("/health", h.Health)

	api := r.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.POST("/login", chain(mw.LoginLimit, h.Auth.Login)...)
	auth.POST("/admin-login", chain(mw.AdminLoginLimit, h.Auth.AdminLogin)...)
	auth.POST("/register", chain(mw.RegisterLimit, h.Auth.Register)...)
	auth.POST("/logout", mw.Auth, h.Auth.Logout)
	auth.GET("/me", mw.Auth, h.Auth.Me)

	// Catalog reads are public
	api.GET("/products", h.Catalog.ListProducts)
	api.GET("/products/search", h.Catalog.SearchProducts)
	api.GET("/products/:id", h.Catalog.GetProduct)
	api.GET("/products/category/:id", h.Catalog.ProductsByCategory)
	api.GET("/products/brand/:id", h.Catalog.ProductsByBrand)
	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/brands", h.Catalog.ListBrands)

	// Catalog writes
	catalogAdmin := api.Group("", mw.Auth, middleware.RequireAdmin, middleware.AuditAdminWrites())
	catalogAdmin.POST("/products", h.Catalog.CreateProduct)
	catalogAdmin.PUT("/products/:id", h.Catalog.UpdateProduct)
	catalogAdmin.DELETE("/products/:id", h.Catalog.DeleteProduct)
	catalogAdmin.POST("/products/:id/image", h.Catalog.UploadImage)
	catalogAdmin.POST("/categories", h.Catalog.CreateCategory)
	catalogAdmin.PUT("/categories/:id", h.Catalog.UpdateCategory)
	catalogAdmin.DELETE("/categories/:id", h.Catalog.DeleteCategory)
	catalogAdmin.POST("/brands", h.Catalog.CreateBrand)
	catalogAdmin.PUT("/brands/:id", h.Catalog.UpdateBrand)
	catalogAdmin.DELETE("/brands/:id", h.Catalog.DeleteBrand)

	// Cart, orders and payments
	owner := middleware.RequireCustomerAccess("customerId")
	authed := api.Group("", mw.Auth)
	authed.GET("/cart/:customerId", owner, h.Cart.GetCart)
	authed.GET("/cart/:customerId/ws", owner, h.CartSocket.Serve)
	authed.POST("/cart", h.Cart.AddToCart)
	authed.PUT("/cart/:cartId", h.Cart.UpdateQuantity)
	authed.DELETE("/cart/:cartId", h.Cart.RemoveFromCart)
	authed.DELETE("/cart/customer/:customerId", owner, h.Cart.ClearCart)

	authed.POST("/orders", h.Orders.CreateOrder)
	authed.GET("/orders/:customerId", owner, h.Orders.GetOrders)

	authed.POST("/payments", h.Payments.CreatePayment)

	// Admin reporting
	adminGroup := api.Group("/admin", mw.Auth, middleware.RequireAdmin)
	adminGroup.GET("/stats", h.Dashboard.Stats)
	adminGroup.GET("/low-stock", h.Dashboard.LowStock)
}

// chain drops the optional guards that are not configured.
func chain(fns ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			out = append(out, fn)
		}
	}
	return out
}
