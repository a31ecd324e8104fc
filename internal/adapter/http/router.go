package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

func NewRouter(manager interfaces.ManagerService, customer interfaces.CustomerService, logger logger.Logger) http.Handler {
	managerHandler := NewManagerHandler(manager, logger)
	customerHandler := NewCustomerHandler(customer, logger)

	r := chi.NewRouter()
	r.Use(LoggingMiddleware(logger), RecoveryMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Клиент
	r.Route("/dishes", func(r chi.Router) {
		r.Get("/", customerHandler.ListDishes)
		r.Get("/averages", customerHandler.Averages)
	})
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", customerHandler.GetCart)
		r.Delete("/", customerHandler.ClearCart)
		r.Post("/{id}", customerHandler.AdjustCart)
		r.Put("/{id}", customerHandler.SetQuantity)
		r.Delete("/{id}", customerHandler.RemoveFromCart)
	})

	// Менеджер
	r.Route("/manager/dishes", func(r chi.Router) {
		r.Get("/", managerHandler.ListDishes)
		r.Post("/", managerHandler.CreateDish)
		r.Delete("/{id}", managerHandler.DeleteDish)
	})

	return r
}
