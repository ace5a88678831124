package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/tablepos/api/controllers"
	cartcontrollers "github.com/angelmondragon/tablepos/api/controllers/cart"
	"github.com/angelmondragon/tablepos/api/middleware"
	checkoutsvc "github.com/angelmondragon/tablepos/internal/checkout"
	"github.com/angelmondragon/tablepos/internal/history"
	"github.com/angelmondragon/tablepos/internal/payments"
	"github.com/angelmondragon/tablepos/pkg/config"
	"github.com/angelmondragon/tablepos/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	storage controllers.Pinger,
	gatherer prometheus.Gatherer,
	carts cartcontrollers.Registry,
	tableCache controllers.TableCache,
	checkoutService checkoutsvc.Service,
	historyService history.Service,
	paymentsService payments.Service,
	paymentPoller controllers.PaymentAwaiter,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, storage))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Terminal(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(carts, logg))
			r.Delete("/", cartcontrollers.CartClear(carts, logg))
			r.Post("/items", cartcontrollers.CartAddItem(carts, logg))
			r.Patch("/items/{key}", cartcontrollers.CartUpdateItem(carts, logg))
			r.Delete("/items/{key}", cartcontrollers.CartRemoveItem(carts, logg))
		})

		r.Route("/tables/active", func(r chi.Router) {
			r.Get("/", controllers.ActiveTableGet(tableCache, logg))
			r.Put("/", controllers.ActiveTableSet(tableCache, logg))
			r.Delete("/", controllers.ActiveTableClear(tableCache, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		r.Get("/orders/recent", controllers.RecentOrders(historyService, logg))

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.PaymentCreate(paymentsService, logg))
			r.Get("/{paymentID}", controllers.PaymentGet(paymentsService, logg))
			r.Get("/{paymentID}/await", controllers.PaymentAwait(paymentPoller, logg))
		})
	})

	return r
}
