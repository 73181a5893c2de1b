package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewapi/internal/model"
)

func TestIsReviewOwner(t *testing.T) {
	review := &model.Review{ID: "r1", AuthorID: "alice"}

	tests := []struct {
		name      string
		principal model.Principal
		review    *model.Review
		want      bool
	}{
		{name: "author", principal: model.Principal{ID: "alice"}, review: review, want: true},
		{name: "other principal", principal: model.Principal{ID: "bob"}, review: review, want: false},
		{name: "anonymous", principal: model.Principal{}, review: &model.Review{AuthorID: ""}, want: false},
		{name: "nil review", principal: model.Principal{ID: "alice"}, review: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReviewOwner(tt.principal, tt.review))
		})
	}
}

func TestIsImageOwner(t *testing.T) {
	img := &model.Image{ID: "i1", UploaderID: "alice"}

	assert.True(t, IsImageOwner(model.Principal{ID: "alice"}, img))
	assert.False(t, IsImageOwner(model.Principal{ID: "bob"}, img))
	assert.False(t, IsImageOwner(model.Principal{}, &model.Image{}))
	assert.False(t, IsImageOwner(model.Principal{ID: "alice"}, nil))
}

func TestImageDelete(t *testing.T) {
	img := &model.Image{ID: "i1", UploaderID: "alice"}
	bob := model.Principal{ID: "bob"}

	t.Run("default allows any authenticated principal", func(t *testing.T) {
		allow := ImageDelete(false)
		assert.True(t, allow(bob, img))
		assert.False(t, allow(model.Principal{}, img))
	})

	t.Run("owner only", func(t *testing.T) {
		allow := ImageDelete(true)
		assert.False(t, allow(bob, img))
		assert.True(t, allow(model.Principal{ID: "alice"}, img))
	})
}
