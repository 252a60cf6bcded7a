package api

import (
	"database/sql"
	"net/http"

	"github.com/zxxx98/small-garden/internal/garden"
	"github.com/zxxx98/small-garden/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, svc *garden.Service, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	plantsHandler := &PlantsHandler{DB: db, Garden: svc}
	todosHandler := &TodosHandler{Garden: svc}
	actionsHandler := &ActionsHandler{DB: db, Garden: svc}
	actionTypesHandler := &ActionTypesHandler{DB: db}
	areasHandler := &AreasHandler{DB: db}
	remindersHandler := &RemindersHandler{Garden: svc}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Plants.
	mux.Handle("GET /api/plants", authMW(http.HandlerFunc(plantsHandler.List)))
	mux.Handle("POST /api/plants", authMW(http.HandlerFunc(plantsHandler.Create)))
	mux.Handle("POST /api/plants/batch-delete", authMW(http.HandlerFunc(plantsHandler.BatchDelete)))
	mux.Handle("GET /api/plants/{id}", authMW(http.HandlerFunc(plantsHandler.Get)))
	mux.Handle("PUT /api/plants/{id}", authMW(http.HandlerFunc(plantsHandler.Update)))
	mux.Handle("DELETE /api/plants/{id}", authMW(http.HandlerFunc(plantsHandler.Delete)))
	mux.Handle("PUT /api/plants/{id}/cemetery", authMW(http.HandlerFunc(plantsHandler.SetCemetery)))
	mux.Handle("GET /api/plants/{id}/actions", authMW(http.HandlerFunc(plantsHandler.ListActions)))
	mux.Handle("PUT /api/plants/{id}/photo", authMW(http.HandlerFunc(plantsHandler.UploadPhoto)))
	mux.Handle("GET /api/plants/{id}/photo", authMW(http.HandlerFunc(plantsHandler.GetPhoto)))

	// Todos (reminders) on a plant.
	mux.Handle("PUT /api/plants/{id}/todos", authMW(http.HandlerFunc(todosHandler.Add)))
	mux.Handle("PUT /api/plants/{id}/todos/{action}", authMW(http.HandlerFunc(todosHandler.Update)))
	mux.Handle("DELETE /api/plants/{id}/todos/{action}", authMW(http.HandlerFunc(todosHandler.Delete)))

	// Actions (care log).
	mux.Handle("GET /api/actions", authMW(http.HandlerFunc(actionsHandler.List)))
	mux.Handle("POST /api/actions", authMW(http.HandlerFunc(actionsHandler.Create)))
	mux.Handle("POST /api/actions/series", authMW(http.HandlerFunc(actionsHandler.CreateSeries)))
	mux.Handle("PUT /api/actions/{id}", authMW(http.HandlerFunc(actionsHandler.Update)))
	mux.Handle("DELETE /api/actions/{id}", authMW(http.HandlerFunc(actionsHandler.Delete)))

	// Action types.
	mux.Handle("GET /api/action-types", authMW(http.HandlerFunc(actionTypesHandler.List)))
	mux.Handle("POST /api/action-types", authMW(http.HandlerFunc(actionTypesHandler.Create)))
	mux.Handle("PUT /api/action-types/{name}", authMW(http.HandlerFunc(actionTypesHandler.Update)))
	mux.Handle("DELETE /api/action-types/{name}", authMW(http.HandlerFunc(actionTypesHandler.Delete)))

	// Areas.
	mux.Handle("GET /api/areas", authMW(http.HandlerFunc(areasHandler.List)))
	mux.Handle("POST /api/areas", authMW(http.HandlerFunc(areasHandler.Create)))
	mux.Handle("PUT /api/areas/{id}", authMW(http.HandlerFunc(areasHandler.Update)))
	mux.Handle("DELETE /api/areas/{id}", authMW(http.HandlerFunc(areasHandler.Delete)))

	// Reminders view.
	mux.Handle("GET /api/reminders/upcoming", authMW(http.HandlerFunc(remindersHandler.Upcoming)))

	return mux
}
