package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"schoolhub/backend/internal/admission"
	"schoolhub/backend/internal/auth"
	"schoolhub/backend/internal/gateway/handlers"
	"schoolhub/backend/internal/gateway/util"
	"schoolhub/backend/internal/result"
	"schoolhub/backend/internal/shared"
	"schoolhub/backend/internal/user"
)

// Services bundles the backend services the router dispatches to.
type Services struct {
	Auth       *auth.Service
	Users      *user.Service
	Admissions *admission.Service
	Results    *result.Service
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(svcs *Services, cfg *shared.ServiceConfig) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{Auth: svcs.Auth}
	userHandler := &handlers.UserHandler{Users: svcs.Users}
	admissionHandler := &handlers.AdmissionHandler{Admissions: svcs.Admissions}
	resultHandler := &handlers.ResultHandler{Results: svcs.Results}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---
		r.Get("/auth/test", authHandler.Test)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/signin", authHandler.Signin)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(svcs.Auth))

			// Profile
			r.Get("/users/profile", userHandler.GetProfile)
			r.Put("/users/profile", userHandler.UpdateProfile)
			r.Post("/users/change-password", userHandler.ChangePassword)

			// Admissions
			r.Post("/admissions", admissionHandler.Create)
			r.Get("/admissions/my-applications", admissionHandler.ListMine)
			r.With(Require(OpAdmissionListAll)).Get("/admissions", admissionHandler.ListAll)
			r.With(Require(OpAdmissionUpdateStatus)).Put("/admissions/{id}/status", admissionHandler.UpdateStatus)

			// Results
			r.With(Require(OpResultCreate)).Post("/results", resultHandler.Create)
			r.With(Require(OpResultListAll)).Get("/results", resultHandler.ListAll)
			r.Get("/results/my-results", resultHandler.ListMine)
			r.Get("/results/{id}", resultHandler.GetByID)
			r.With(Require(OpResultUpdate)).Put("/results/{id}", resultHandler.Update)
			r.With(Require(OpResultDelete)).Delete("/results/{id}", resultHandler.Delete)
		})
	})

	return r
}

// Authenticate verifies the bearer token and injects the principal into
// the request context. A missing or invalid token short-circuits with 401
// before any policy check runs.
func Authenticate(authSvc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			claims, err := authSvc.VerifyToken(tokenStr)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			principal := &handlers.Principal{
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  claims.Role,
			}

			ctx := handlers.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require enforces the policy table for one operation. Runs after
// Authenticate, so a missing principal is an internal wiring error, not a
// user mistake.
func Require(op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := handlers.PrincipalFromContext(r.Context())
			if !ok {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			if !Allowed(principal.Role, op) {
				util.WriteJSONError(w, http.StatusForbidden, "You do not have permission to perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
