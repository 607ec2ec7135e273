package workerservice

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/domain"
)

type Repo interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.WorkerProfile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkerProfile, error)
	ListActive(ctx context.Context) ([]domain.WorkerProfile, error)
	Upsert(ctx context.Context, p *domain.WorkerProfile) (*domain.WorkerProfile, error)
	ListBlocks(ctx context.Context, profileID uuid.UUID) ([]domain.WorkerBlock, error)
	ReplaceBlocks(ctx context.Context, profileID uuid.UUID, blocks []domain.WorkerBlock) error
}

// URLSigner issues expiring URLs for private storage objects.
type URLSigner interface {
	SignedURL(key string) string
}

type Service struct {
	workerRepo Repo
	signer     URLSigner
}

func New(workerRepo Repo, signer URLSigner) *Service {
	return &Service{workerRepo: workerRepo, signer: signer}
}

var (
	ErrProfileNotFound = errors.New("worker profile not found")
	ErrEmptyName       = errors.New("display name is required")
	ErrUnknownBlock    = errors.New("unknown cv block kind")
)

const (
	BlockText       = "text"
	BlockExperience = "experience"
	BlockEducation  = "education"
	BlockSkills     = "skills"
)

var knownBlockKinds = map[string]struct{}{
	BlockText:       {},
	BlockExperience: {},
	BlockEducation:  {},
	BlockSkills:     {},
}

// ProfileView is a profile with its ordered CV blocks and a signed photo URL.
// The photo key itself never leaves the service.
type ProfileView struct {
	Profile  domain.WorkerProfile
	Blocks   []domain.WorkerBlock
	PhotoURL string
}

func (s *Service) SaveProfile(ctx context.Context, p *domain.WorkerProfile) (*domain.WorkerProfile, error) {
	if p.DisplayName == "" {
		return nil, ErrEmptyName
	}
	return s.workerRepo.Upsert(ctx, p)
}

func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	p, err := s.workerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProfileView, error) {
	p, err := s.workerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

func (s *Service) ListActive(ctx context.Context) ([]ProfileView, error) {
	profiles, err := s.workerRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ProfileView, 0, len(profiles))
	for i := range profiles {
		v, err := s.view(ctx, &profiles[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// ReplaceBlocks validates the block kinds and swaps the full ordered list.
func (s *Service) ReplaceBlocks(ctx context.Context, userID uuid.UUID, blocks []domain.WorkerBlock) ([]domain.WorkerBlock, error) {
	p, err := s.workerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	for _, b := range blocks {
		if _, ok := knownBlockKinds[b.Kind]; !ok {
			return nil, ErrUnknownBlock
		}
	}
	if err := s.workerRepo.ReplaceBlocks(ctx, p.ID, blocks); err != nil {
		return nil, err
	}
	return s.workerRepo.ListBlocks(ctx, p.ID)
}

func (s *Service) view(ctx context.Context, p *domain.WorkerProfile) (*ProfileView, error) {
	if p == nil {
		return nil, ErrProfileNotFound
	}
	blocks, err := s.workerRepo.ListBlocks(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	v := &ProfileView{Profile: *p, Blocks: blocks}
	if p.PhotoKey != "" {
		v.PhotoURL = s.signer.SignedURL(p.PhotoKey)
	}
	return v, nil
}
