package handler

import (
	"github.com/gofiber/fiber/v2"

	"reviewapi/internal/service"
)

// GetCompanyRating handles GET /company-ratings/:companyId.
// @Summary Aggregate rating of a company
// @Tags ratings
// @Produce json
// @Param companyId path string true "Company id"
// @Success 200 {object} model.CompanyRating
// @Failure 400 {object} errorPayload
// @Router /company-ratings/{companyId} [get]
func GetCompanyRating(svc service.RatingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rating, err := svc.GetCompanyRating(c.UserContext(), c.Params("companyId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rating)
	}
}
