// Package routes assembles the HTTP surface.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/provisionhq/procurehub-backend/api/controllers"
	cartcontrollers "github.com/provisionhq/procurehub-backend/api/controllers/cart"
	catalogcontrollers "github.com/provisionhq/procurehub-backend/api/controllers/catalog"
	requestcontrollers "github.com/provisionhq/procurehub-backend/api/controllers/requests"
	storecontrollers "github.com/provisionhq/procurehub-backend/api/controllers/stores"
	"github.com/provisionhq/procurehub-backend/api/middleware"
	cartsvc "github.com/provisionhq/procurehub-backend/internal/cart"
	catalogsvc "github.com/provisionhq/procurehub-backend/internal/catalog"
	inventorysvc "github.com/provisionhq/procurehub-backend/internal/inventory"
	requestsvc "github.com/provisionhq/procurehub-backend/internal/requests"
	storeinvsvc "github.com/provisionhq/procurehub-backend/internal/storeinv"
	storesvc "github.com/provisionhq/procurehub-backend/internal/stores"
	walletsvc "github.com/provisionhq/procurehub-backend/internal/wallet"
	"github.com/provisionhq/procurehub-backend/pkg/config"
	dbpkg "github.com/provisionhq/procurehub-backend/pkg/db"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	"github.com/provisionhq/procurehub-backend/pkg/logger"
	pkgredis "github.com/provisionhq/procurehub-backend/pkg/redis"
)

// Services bundles the wired domain services the router serves.
type Services struct {
	Stores         storesvc.Service
	Wallets        walletsvc.Service
	StoreInventory storeinvsvc.Service
	Catalog        catalogsvc.Service
	Inventory      inventorysvc.Service
	Carts          cartsvc.Service
	Requests       requestsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP dbpkg.Pinger,
	redisClient *pkgredis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	staffWrite := middleware.RequireRole(logg, enums.ActorRoleStaff, enums.ActorRoleAdmin)
	adminOnly := middleware.RequireRole(logg, enums.ActorRoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.Ping())

		r.Route("/v1", func(r chi.Router) {
			r.Post("/requests", requestcontrollers.Create(svcs.Requests, logg))
			r.Get("/requests", requestcontrollers.List(svcs.Requests, logg))
			r.Get("/requests/{requestId}", requestcontrollers.Get(svcs.Requests, logg))
			r.Post("/requests/{requestId}/approve", requestcontrollers.Approve(svcs.Requests, logg))
			r.Post("/requests/{requestId}/reject", requestcontrollers.Reject(svcs.Requests, logg))

			r.Get("/cart", cartcontrollers.Fetch(svcs.Carts, logg))
			r.Post("/cart/items", cartcontrollers.AddItem(svcs.Carts, logg))
			r.Patch("/cart/items/{itemId}", cartcontrollers.UpdateItem(svcs.Carts, logg))
			r.Delete("/cart/items/{itemId}", cartcontrollers.RemoveItem(svcs.Carts, logg))
			r.Delete("/cart/items", cartcontrollers.Clear(svcs.Carts, logg))
			r.Post("/cart/checkout", cartcontrollers.Checkout(svcs.Carts, svcs.Requests, logg))

			r.With(adminOnly).Post("/stores", storecontrollers.Create(svcs.Stores, logg))
			r.Get("/stores", storecontrollers.List(svcs.Stores, logg))
			r.Get("/stores/{storeId}", storecontrollers.Get(svcs.Stores, logg))
			r.With(adminOnly).Put("/stores/{storeId}/approvers", storecontrollers.UpdateApprovers(svcs.Stores, logg))
			r.Get("/stores/{storeId}/wallet", storecontrollers.GetWallet(svcs.Wallets, logg))
			r.With(adminOnly).Post("/stores/{storeId}/wallet/credit", storecontrollers.CreditWallet(svcs.Wallets, logg))
			r.Get("/stores/{storeId}/inventory", storecontrollers.ListInventory(svcs.StoreInventory, logg))

			r.With(staffWrite).Post("/catalog/products", catalogcontrollers.CreateProduct(svcs.Catalog, logg))
			r.Get("/catalog/products", catalogcontrollers.ListProducts(svcs.Catalog, logg))
			r.Get("/catalog/products/{productId}", catalogcontrollers.GetProduct(svcs.Catalog, logg))
			r.Get("/catalog/products/{productId}/skus", catalogcontrollers.ListSKUs(svcs.Catalog, logg))
			r.With(staffWrite).Post("/catalog/skus", catalogcontrollers.CreateSKU(svcs.Catalog, logg))
			r.With(staffWrite).Post("/catalog/skus/{skuId}/lots", catalogcontrollers.AddLot(svcs.Inventory, logg))
			r.Get("/catalog/skus/{skuId}/lots", catalogcontrollers.ListLots(svcs.Inventory, logg))
			r.Get("/catalog/skus/{skuId}/availability", catalogcontrollers.Availability(svcs.Inventory, logg))
		})
	})

	return r
}
