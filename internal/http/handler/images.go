package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"reviewapi/internal/http/middleware"
	"reviewapi/internal/model"
	"reviewapi/internal/service"
)

// UploadCompanyImage handles POST /images (multipart/form-data, fields: company_id, image).
// @Summary Add an image to a company gallery
// @Tags images
// @Accept mpfd
// @Produce json
// @Param company_id formData string true "Company id"
// @Param image formData file true "Image"
// @Success 200 {object} model.Image
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Security BearerAuth
// @Router /images [post]
func UploadCompanyImage(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := c.FormValue("company_id")

		var file model.Upload
		if fh, err := c.FormFile("image"); err == nil {
			uploads, closeAll, err := openUploads([]*multipart.FileHeader{fh})
			defer closeAll()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			file = uploads[0]
		}

		img, err := svc.UploadCompanyImage(c.UserContext(), middleware.PrincipalFromCtx(c), companyID, file)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(img)
	}
}

// GetCompanyImages handles GET /images/:companyId.
// @Summary List a company gallery
// @Tags images
// @Produce json
// @Param companyId path string true "Company id"
// @Success 200 {array} model.Image
// @Failure 400 {object} errorPayload
// @Router /images/{companyId} [get]
func GetCompanyImages(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		images, err := svc.GetCompanyImages(c.UserContext(), c.Params("companyId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(images)
	}
}

// DeleteCompanyImage handles DELETE /images/:id.
// @Summary Delete a gallery image
// @Tags images
// @Produce json
// @Param id path string true "Image id"
// @Success 200 {object} messagePayload
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /images/{id} [delete]
func DeleteCompanyImage(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.DeleteCompanyImage(c.UserContext(), middleware.PrincipalFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messagePayload{Message: "image deleted"})
	}
}
