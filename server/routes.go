package server

import (
	"net/http"

	"activos/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (srv *Server) InjectRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Group(func(protected chi.Router) {
			protected.Use(srv.Middleware.JWTAuthMiddleware())

			// registry and assignment routes for asset managers
			protected.Route("/inventory", func(inventory chi.Router) {
				inventory.Use(srv.Middleware.RequireRole(models.AssetManagerRole, models.AdministratorRole))

				inventory.Post("/assets", srv.AssetHandler.CreateAsset)
				inventory.Put("/assets/update", srv.AssetHandler.UpdateAsset)
				inventory.Post("/assets/retire", srv.AssetHandler.RetireAsset)
				inventory.Get("/assets", srv.AssetHandler.GetAllAssetsWithFilters)
				inventory.Get("/assets/detail", srv.AssetHandler.GetAsset)
				inventory.Get("/assets/timeline", srv.AssetHandler.GetAssetTimeline)

				inventory.Post("/assignments/checkout", srv.AssignmentHandler.CheckOut)
				inventory.Post("/assignments/checkin", srv.AssignmentHandler.CheckIn)
				inventory.Get("/assignments", srv.AssignmentHandler.ListByAsset)

				inventory.Post("/categories", srv.CatalogHandler.CreateCategory)
				inventory.Put("/categories", srv.CatalogHandler.RenameCategory)
				inventory.Delete("/categories", srv.CatalogHandler.DeleteCategory)
				inventory.Get("/categories", srv.CatalogHandler.ListCategories)
				inventory.Post("/locations", srv.CatalogHandler.CreateLocation)
				inventory.Put("/locations", srv.CatalogHandler.RenameLocation)
				inventory.Delete("/locations", srv.CatalogHandler.DeleteLocation)
				inventory.Get("/locations", srv.CatalogHandler.ListLocations)
			})

			// any authenticated user can report a problem or follow their own orders
			protected.Route("/workorders", func(wo chi.Router) {
				wo.Post("/", srv.WorkOrderHandler.Create)
				wo.Get("/mine", srv.WorkOrderHandler.ListMine)
				wo.Get("/reported", srv.WorkOrderHandler.ListReported)

				wo.Group(func(staff chi.Router) {
					staff.Use(srv.Middleware.RequireRole(models.TechnicianRole, models.AssetManagerRole, models.AdministratorRole))
					staff.Get("/", srv.WorkOrderHandler.List)
					staff.Get("/detail", srv.WorkOrderHandler.GetDetail)
					staff.Post("/advance", srv.WorkOrderHandler.Advance)
					staff.Post("/costs", srv.WorkOrderHandler.AddCost)
				})

				wo.Group(func(managers chi.Router) {
					managers.Use(srv.Middleware.RequireRole(models.AssetManagerRole, models.AdministratorRole))
					managers.Post("/assign", srv.WorkOrderHandler.Assign)
				})
			})

			protected.Route("/maintenance", func(maintenance chi.Router) {
				maintenance.Use(srv.Middleware.RequireRole(models.AssetManagerRole, models.AdministratorRole))
				maintenance.Post("/plans", srv.PlanHandler.CreatePlan)
				maintenance.Put("/plans", srv.PlanHandler.UpdatePlan)
				maintenance.Delete("/plans", srv.PlanHandler.DeletePlan)
				maintenance.Get("/plans", srv.PlanHandler.ListPlans)
			})

			protected.Route("/billing", func(billing chi.Router) {
				billing.Use(srv.Middleware.RequireRole(models.AssetManagerRole, models.AdministratorRole))
				billing.Post("/invoices", srv.InvoiceHandler.Generate)
				billing.Post("/invoices/paid", srv.InvoiceHandler.MarkPaid)
				billing.Get("/invoices", srv.InvoiceHandler.List)
				billing.Get("/invoices/detail", srv.InvoiceHandler.Get)
			})
		})
	})

	return r
}
