package handler

import (
	"github.com/gofiber/fiber/v2"

	"reviewapi/internal/service"
)

// Services bundles the use cases the HTTP layer exposes.
type Services struct {
	Reviews service.ReviewService
	Images  service.ImageService
	Ratings service.RatingService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// authn guards every route that needs a principal.
func RegisterRoutes(app *fiber.App, db Pinger, svc Services, authn fiber.Handler) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", Liveness())

	// /reviews/user must be registered before /reviews/:companyId
	app.Post("/reviews", authn, CreateReview(svc.Reviews))
	app.Get("/reviews/user", authn, GetMyReviews(svc.Reviews))
	app.Get("/reviews/:companyId", GetReviewsByCompany(svc.Reviews))
	app.Put("/reviews/:id", authn, UpdateReview(svc.Reviews))
	app.Delete("/reviews/:id", authn, DeleteReview(svc.Reviews))

	app.Get("/company-ratings/:companyId", GetCompanyRating(svc.Ratings))

	app.Post("/images", authn, UploadCompanyImage(svc.Images))
	app.Get("/images/:companyId", GetCompanyImages(svc.Images))
	app.Delete("/images/:id", authn, DeleteCompanyImage(svc.Images))
}
