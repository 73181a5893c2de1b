// Package policy holds the access predicates used by the review and image
// services. They are pure functions of the acting principal and the entity.
package policy

import "reviewapi/internal/model"

// IsReviewOwner reports whether p authored r.
func IsReviewOwner(p model.Principal, r *model.Review) bool {
	return r != nil && p.Authenticated() && p.ID == r.AuthorID
}

// IsImageOwner reports whether p uploaded img.
func IsImageOwner(p model.Principal, img *model.Image) bool {
	return img != nil && p.Authenticated() && p.ID == img.UploaderID
}

// ImageDeletePolicy decides whether p may delete img.
type ImageDeletePolicy func(p model.Principal, img *model.Image) bool

// AnyAuthenticated lets every authenticated principal delete any image.
// This is the current product behavior for the company gallery.
func AnyAuthenticated(p model.Principal, _ *model.Image) bool {
	return p.Authenticated()
}

// ImageDelete returns the deletion policy for the given setting.
func ImageDelete(ownerOnly bool) ImageDeletePolicy {
	if ownerOnly {
		return IsImageOwner
	}
	return AnyAuthenticated
}
