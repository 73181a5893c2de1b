package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"reviewapi/internal/http/middleware"
	"reviewapi/internal/model"
	"reviewapi/internal/service"
)

// reviewForm is the body of review writes. It is accepted as
// multipart/form-data (with files under "images") or as JSON without images.
type reviewForm struct {
	CompanyID string `json:"company_id" form:"company_id"`
	Comment   string `json:"comment" form:"comment"`
	Rating    int    `json:"rating" form:"rating"`
}

func (f reviewForm) input() service.ReviewInput {
	return service.ReviewInput{CompanyID: f.CompanyID, Comment: f.Comment, Rating: f.Rating}
}

// CreateReview handles POST /reviews.
// @Summary Create a review
// @Tags reviews
// @Accept mpfd
// @Produce json
// @Param company_id formData string true "Company id"
// @Param comment formData string true "Comment"
// @Param rating formData int true "Rating 1..5"
// @Param images formData file false "Up to 5 images"
// @Success 200 {object} model.Review
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Security BearerAuth
// @Router /reviews [post]
func CreateReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form reviewForm
		if err := c.BodyParser(&form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "invalid review form")
		}

		images, closeAll, err := openUploads(formFiles(c, "images"))
		defer closeAll()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}

		review, err := svc.CreateReview(c.UserContext(), middleware.PrincipalFromCtx(c), form.input(), images)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(review)
	}
}

// GetReviewsByCompany handles GET /reviews/:companyId.
// @Summary List the reviews of a company
// @Tags reviews
// @Produce json
// @Param companyId path string true "Company id"
// @Success 200 {array} model.Review
// @Failure 400 {object} errorPayload
// @Router /reviews/{companyId} [get]
func GetReviewsByCompany(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reviews, err := svc.GetReviewsByCompany(c.UserContext(), c.Params("companyId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(reviews)
	}
}

// GetMyReviews handles GET /reviews/user.
// @Summary List the caller's reviews
// @Tags reviews
// @Produce json
// @Success 200 {array} model.Review
// @Failure 401 {object} errorPayload
// @Security BearerAuth
// @Router /reviews/user [get]
func GetMyReviews(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reviews, err := svc.GetReviewsByUser(c.UserContext(), middleware.PrincipalFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(reviews)
	}
}

// UpdateReview handles PUT /reviews/:id. Posting no images keeps the existing ones.
// @Summary Update a review
// @Tags reviews
// @Accept mpfd
// @Produce json
// @Param id path string true "Review id"
// @Param company_id formData string true "Company id"
// @Param comment formData string true "Comment"
// @Param rating formData int true "Rating 1..5"
// @Param images formData file false "Replacement images"
// @Success 200 {object} model.Review
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /reviews/{id} [put]
func UpdateReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var form reviewForm
		if err := c.BodyParser(&form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "invalid review form")
		}

		files, closeAll, err := openUploads(formFiles(c, "images"))
		defer closeAll()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}

		images := model.KeepImages()
		if len(files) > 0 {
			images = model.ReplaceImages(files)
		}

		review, err := svc.UpdateReview(c.UserContext(), middleware.PrincipalFromCtx(c), id, form.input(), images)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(review)
	}
}

// DeleteReview handles DELETE /reviews/:id.
// @Summary Delete a review and its images
// @Tags reviews
// @Produce json
// @Param id path string true "Review id"
// @Success 200 {object} messagePayload
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /reviews/{id} [delete]
func DeleteReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.DeleteReview(c.UserContext(), middleware.PrincipalFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messagePayload{Message: "review deleted"})
	}
}
