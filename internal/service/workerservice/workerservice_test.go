package workerservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockURLSigner) {
	ctrl := gomock.NewController(t)
	workerRepo := NewMockRepo(ctrl)
	signer := NewMockURLSigner(ctrl)
	service := New(workerRepo, signer)
	defer ctrl.Finish()
	return service, workerRepo, signer
}

func TestSaveProfile(t *testing.T) {
	service, workerRepo, _ := NewMock(t)

	t.Run("Empty display name rejected", func(t *testing.T) {
		_, err := service.SaveProfile(context.Background(), &domain.WorkerProfile{})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("Profile upserted", func(t *testing.T) {
		p := &domain.WorkerProfile{UserID: uuid.New(), DisplayName: "Ayşe Yılmaz"}
		workerRepo.EXPECT().Upsert(gomock.Any(), p).Return(p, nil)

		saved, err := service.SaveProfile(context.Background(), p)
		assert.NoError(t, err)
		assert.Equal(t, p, saved)
	})
}

func TestGetByUser(t *testing.T) {
	userID := uuid.New()
	profileID := uuid.New()

	tests := []struct {
		name          string
		prepareMock   func(workerRepo *MockRepo, signer *MockURLSigner)
		expectedURL   string
		expectedError error
	}{
		{
			name: "Profile with photo gets a signed url",
			prepareMock: func(workerRepo *MockRepo, signer *MockURLSigner) {
				workerRepo.EXPECT().FindByUserID(gomock.Any(), userID).Return(&domain.WorkerProfile{
					ID: profileID, UserID: userID, DisplayName: "Ayşe", PhotoKey: "photos/a.jpg",
				}, nil)
				workerRepo.EXPECT().ListBlocks(gomock.Any(), profileID).Return([]domain.WorkerBlock{
					{ProfileID: profileID, Idx: 0, Kind: BlockText, Content: "Hi"},
				}, nil)
				signer.EXPECT().SignedURL("photos/a.jpg").Return("/storage/photos/a.jpg?exp=1&sig=abc")
			},
			expectedURL: "/storage/photos/a.jpg?exp=1&sig=abc",
		},
		{
			name: "Profile without photo has no url",
			prepareMock: func(workerRepo *MockRepo, signer *MockURLSigner) {
				workerRepo.EXPECT().FindByUserID(gomock.Any(), userID).Return(&domain.WorkerProfile{
					ID: profileID, UserID: userID, DisplayName: "Ayşe",
				}, nil)
				workerRepo.EXPECT().ListBlocks(gomock.Any(), profileID).Return(nil, nil)
			},
			expectedURL: "",
		},
		{
			name: "Missing profile",
			prepareMock: func(workerRepo *MockRepo, signer *MockURLSigner) {
				workerRepo.EXPECT().FindByUserID(gomock.Any(), userID).Return(nil, nil)
			},
			expectedError: ErrProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, workerRepo, signer := NewMock(t)
			tt.prepareMock(workerRepo, signer)

			view, err := service.GetByUser(context.Background(), userID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedURL, view.PhotoURL)
		})
	}
}

func TestListActive(t *testing.T) {
	service, workerRepo, signer := NewMock(t)
	p1 := domain.WorkerProfile{ID: uuid.New(), DisplayName: "A", PhotoKey: "photos/a.jpg", Active: true}
	p2 := domain.WorkerProfile{ID: uuid.New(), DisplayName: "B", Active: true}

	workerRepo.EXPECT().ListActive(gomock.Any()).Return([]domain.WorkerProfile{p1, p2}, nil)
	workerRepo.EXPECT().ListBlocks(gomock.Any(), p1.ID).Return(nil, nil)
	signer.EXPECT().SignedURL("photos/a.jpg").Return("/storage/photos/a.jpg?exp=1&sig=abc")
	workerRepo.EXPECT().ListBlocks(gomock.Any(), p2.ID).Return(nil, nil)

	views, err := service.ListActive(context.Background())
	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.NotEmpty(t, views[0].PhotoURL)
	assert.Empty(t, views[1].PhotoURL)
}

func TestReplaceBlocks(t *testing.T) {
	userID := uuid.New()
	profileID := uuid.New()

	tests := []struct {
		name          string
		blocks        []domain.WorkerBlock
		prepareMock   func(workerRepo *MockRepo)
		expectedError error
	}{
		{
			name: "Blocks replaced and re-read",
			blocks: []domain.WorkerBlock{
				{Kind: BlockText, Content: "About me"},
				{Kind: BlockExperience, Content: "10 years in customs brokerage"},
			},
			prepareMock: func(workerRepo *MockRepo) {
				workerRepo.EXPECT().FindByUserID(gomock.Any(), userID).Return(&domain.WorkerProfile{ID: profileID}, nil)
				workerRepo.EXPECT().ReplaceBlocks(gomock.Any(), profileID, gomock.Any()).Return(nil)
				workerRepo.EXPECT().ListBlocks(gomock.Any(), profileID).Return([]domain.WorkerBlock{
					{ProfileID: profileID, Idx: 0, Kind: BlockText, Content: "About me"},
					{ProfileID: profileID, Idx: 1, Kind: BlockExperience, Content: "10 years in customs brokerage"},
				}, nil)
			},
		},
		{
			name:   "Unknown block kind rejected",
			blocks: []domain.WorkerBlock{{Kind: "gallery", Content: "x"}},
			prepareMock: func(workerRepo *MockRepo) {
				workerRepo.EXPECT().FindByUserID(gomock.Any(), userID).Return(&domain.WorkerProfile{ID: profileID}, nil)
			},
			expectedError: ErrUnknownBlock,
		},
		{
			name:   "No profile yet",
			blocks: []domain.WorkerBlock{{Kind: BlockText, Content: "x"}},
			prepareMock: func(workerRepo *MockRepo) {
				workerRepo.EXPECT().FindByUserID(gomock.Any(), userID).Return(nil, nil)
			},
			expectedError: ErrProfileNotFound,
		},
		{
			name:   "Repository error",
			blocks: []domain.WorkerBlock{{Kind: BlockSkills, Content: "x"}},
			prepareMock: func(workerRepo *MockRepo) {
				workerRepo.EXPECT().FindByUserID(gomock.Any(), userID).Return(&domain.WorkerProfile{ID: profileID}, nil)
				workerRepo.EXPECT().ReplaceBlocks(gomock.Any(), profileID, gomock.Any()).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, workerRepo, _ := NewMock(t)
			tt.prepareMock(workerRepo)

			blocks, err := service.ReplaceBlocks(context.Background(), userID, tt.blocks)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Len(t, blocks, len(tt.blocks))
			}
		})
	}
}
