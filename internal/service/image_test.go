package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reviewapi/internal/model"
	"reviewapi/internal/policy"
	repoMocks "reviewapi/internal/repository/mocks"
	storeMocks "reviewapi/internal/storage/mocks"
)

func newImageService(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway, canDelete policy.ImageDeletePolicy) *imageService {
	svc := NewImageService(mRepo, mGW, 15, canDelete, zerolog.Nop()).(*imageService)
	svc.now = func() time.Time { return fixed }
	return svc
}

func TestImageService_UploadCompanyImage(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		principal  model.Principal
		companyID  string
		file       model.Upload
		setupMocks func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:      "happy path",
			principal: alice,
			companyID: "acme",
			file:      upload("logo.png"),
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("CountByCompany", mock.Anything, "acme").Return(14, nil)
				mGW.On("Upload", mock.Anything, byName("logo.png")).Return("ref-logo", nil)
				mRepo.On("Create", mock.Anything, mock.MatchedBy(func(img *model.Image) bool {
					return img.ID != "" && img.CompanyID == "acme" && img.UploaderID == alice.ID &&
						img.MediaRef == "ref-logo" && img.CreatedAt.Equal(fixed)
				})).Return(&model.Image{ID: "img-1", MediaRef: "ref-logo"}, nil)
			},
		},
		{
			name:      "sixteenth image is rejected before upload",
			principal: alice,
			companyID: "acme",
			file:      upload("logo.png"),
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("CountByCompany", mock.Anything, "acme").Return(15, nil)
			},
			wantErr: ErrResourceExhausted,
		},
		{
			name:       "empty company id",
			principal:  alice,
			file:       upload("logo.png"),
			setupMocks: func(*repoMocks.MockImageRepository, *storeMocks.MockGateway) {},
			wantErr:    ErrInvalidArgument,
		},
		{
			name:       "absent image",
			principal:  alice,
			companyID:  "acme",
			setupMocks: func(*repoMocks.MockImageRepository, *storeMocks.MockGateway) {},
			wantErr:    ErrInvalidArgument,
		},
		{
			name:       "no principal",
			companyID:  "acme",
			file:       upload("logo.png"),
			setupMocks: func(*repoMocks.MockImageRepository, *storeMocks.MockGateway) {},
			wantErr:    ErrUnauthenticated,
		},
		{
			name:      "upload failure is fatal",
			principal: alice,
			companyID: "acme",
			file:      upload("logo.png"),
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("CountByCompany", mock.Anything, "acme").Return(0, nil)
				mGW.On("Upload", mock.Anything, mock.Anything).Return("", context.DeadlineExceeded)
			},
			wantErr: ErrUpstream,
		},
		{
			name:      "empty reference is an upstream failure",
			principal: alice,
			companyID: "acme",
			file:      upload("logo.png"),
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("CountByCompany", mock.Anything, "acme").Return(0, nil)
				mGW.On("Upload", mock.Anything, mock.Anything).Return("", nil)
			},
			wantErr: ErrUpstream,
		},
		{
			name:      "count error",
			principal: alice,
			companyID: "acme",
			file:      upload("logo.png"),
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("CountByCompany", mock.Anything, "acme").Return(0, errors.New("db fail"))
			},
			wantErrMsg: "count company images: db fail",
		},
		{
			name:      "repository error with successful rollback",
			principal: alice,
			companyID: "acme",
			file:      upload("logo.png"),
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("CountByCompany", mock.Anything, "acme").Return(3, nil)
				mGW.On("Upload", mock.Anything, mock.Anything).Return("ref-logo", nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
				mGW.On("Release", mock.Anything, "ref-logo").Return(nil)
			},
			wantErrMsg: "save image failed: db fail",
		},
		{
			name:      "repository error with failed rollback",
			principal: alice,
			companyID: "acme",
			file:      upload("logo.png"),
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("CountByCompany", mock.Anything, "acme").Return(3, nil)
				mGW.On("Upload", mock.Anything, mock.Anything).Return("ref-logo", nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
				mGW.On("Release", mock.Anything, "ref-logo").Return(errors.New("delete fail"))
			},
			wantErrMsg: "save image failed: db fail; rollback release failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockImageRepository)
			mGW := new(storeMocks.MockGateway)
			svc := newImageService(mRepo, mGW, nil)
			tt.setupMocks(mRepo, mGW)

			img, err := svc.UploadCompanyImage(ctx, tt.principal, tt.companyID, tt.file)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, img)
				mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else if tt.wantErrMsg != "" {
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Nil(t, img)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "img-1", img.ID)
			}
			if errors.Is(tt.wantErr, ErrResourceExhausted) {
				mGW.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
			}
			mRepo.AssertExpectations(t)
			mGW.AssertExpectations(t)
		})
	}
}

func TestImageService_DeleteCompanyImage(t *testing.T) {
	ctx := context.Background()
	stored := &model.Image{ID: "img-1", CompanyID: "acme", UploaderID: alice.ID, MediaRef: "ref-logo"}

	tests := []struct {
		name       string
		principal  model.Principal
		id         string
		canDelete  policy.ImageDeletePolicy
		setupMocks func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:      "any authenticated principal by default",
			principal: bob,
			id:        "img-1",
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("FindByID", mock.Anything, "img-1").Return(stored, nil)
				mGW.On("Release", mock.Anything, "ref-logo").Return(nil)
				mRepo.On("Delete", mock.Anything, "img-1").Return(nil)
			},
		},
		{
			name:      "release failure does not block removal",
			principal: alice,
			id:        "img-1",
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("FindByID", mock.Anything, "img-1").Return(stored, nil)
				mGW.On("Release", mock.Anything, "ref-logo").Return(errors.New("store down"))
				mRepo.On("Delete", mock.Anything, "img-1").Return(nil)
			},
		},
		{
			name:      "owner-only policy denies other principals",
			principal: bob,
			id:        "img-1",
			canDelete: policy.ImageDelete(true),
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("FindByID", mock.Anything, "img-1").Return(stored, nil)
			},
			wantErr: ErrPermissionDenied,
		},
		{
			name:      "owner-only policy lets the uploader delete",
			principal: alice,
			id:        "img-1",
			canDelete: policy.ImageDelete(true),
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("FindByID", mock.Anything, "img-1").Return(stored, nil)
				mGW.On("Release", mock.Anything, "ref-logo").Return(nil)
				mRepo.On("Delete", mock.Anything, "img-1").Return(nil)
			},
		},
		{
			name:      "not found",
			principal: alice,
			id:        "missing",
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("FindByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "no principal",
			id:         "img-1",
			setupMocks: func(*repoMocks.MockImageRepository, *storeMocks.MockGateway) {},
			wantErr:    ErrUnauthenticated,
		},
		{
			name:      "repository delete error",
			principal: alice,
			id:        "img-1",
			setupMocks: func(mRepo *repoMocks.MockImageRepository, mGW *storeMocks.MockGateway) {
				mRepo.On("FindByID", mock.Anything, "img-1").Return(stored, nil)
				mGW.On("Release", mock.Anything, "ref-logo").Return(nil)
				mRepo.On("Delete", mock.Anything, "img-1").Return(errors.New("db fail"))
			},
			wantErrMsg: "delete image: db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockImageRepository)
			mGW := new(storeMocks.MockGateway)
			svc := newImageService(mRepo, mGW, tt.canDelete)
			tt.setupMocks(mRepo, mGW)

			err := svc.DeleteCompanyImage(ctx, tt.principal, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				mGW.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
			} else if tt.wantErrMsg != "" {
				assert.EqualError(t, err, tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
			}
			mRepo.AssertExpectations(t)
			mGW.AssertExpectations(t)
		})
	}
}

func TestImageService_GetCompanyImages(t *testing.T) {
	ctx := context.Background()

	t.Run("gallery", func(t *testing.T) {
		mRepo := new(repoMocks.MockImageRepository)
		svc := newImageService(mRepo, new(storeMocks.MockGateway), nil)
		mRepo.On("ListByCompany", mock.Anything, "acme").Return([]model.Image{{ID: "img-1"}}, nil)

		got, err := svc.GetCompanyImages(ctx, "acme")

		require.NoError(t, err)
		assert.Equal(t, []model.Image{{ID: "img-1"}}, got)
	})

	t.Run("empty gallery is an empty list", func(t *testing.T) {
		mRepo := new(repoMocks.MockImageRepository)
		svc := newImageService(mRepo, new(storeMocks.MockGateway), nil)
		mRepo.On("ListByCompany", mock.Anything, "acme").Return(nil, nil)

		got, err := svc.GetCompanyImages(ctx, "acme")

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := newImageService(new(repoMocks.MockImageRepository), new(storeMocks.MockGateway), nil)

		_, err := svc.GetCompanyImages(ctx, "")

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
