package routes

import (
	"net/http"

	"roamio/admin"
	"roamio/auth"
	"roamio/bookings"
	"roamio/experiences"
	"roamio/middleware"
	"roamio/ratelim"
	"roamio/tasks"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/experiencepic/*filepath", http.Dir("static/experiencepic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/signup", rl.Limit(auth.Signup))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddExperienceRoutes(router *httprouter.Router, h *experiences.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/experiences", rl.Limit(h.Browse))
	router.GET("/api/experiences/:id", middleware.OptionalAuth(h.Get))
	router.POST("/api/experiences", middleware.Authenticate(h.Create))
	router.PATCH("/api/experiences/:id/publish", middleware.Authenticate(h.Publish))
	router.PATCH("/api/experiences/:id/block", middleware.Authenticate(h.Block))
	router.POST("/api/experiences/:id/banner", middleware.Authenticate(h.UploadBanner))
}

func AddBookingRoutes(router *httprouter.Router, h *bookings.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/experiences/:id/book", rl.Limit(middleware.Authenticate(h.Book)))
	router.GET("/api/bookings", middleware.Authenticate(h.ListMine))
}

func AddTaskRoutes(router *httprouter.Router) {
	router.POST("/api/tasks", middleware.Authenticate(tasks.CreateTask))
	router.GET("/api/tasks", middleware.Authenticate(tasks.GetTasks))
	router.PUT("/api/tasks/:id", middleware.Authenticate(tasks.UpdateTask))
	router.DELETE("/api/tasks/:id", middleware.Authenticate(tasks.DeleteTask))
}

func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/admin/users", rl.Limit(middleware.Authenticate(admin.ListUsers)))
}
