package service

import (
	"context"

	"assochub/internal/model"
	"assochub/internal/pkg"
)

type MemberRepository interface {
	Create(ctx context.Context, m *model.Member) error
	FindByUID(ctx context.Context, uid string) (*model.Member, error)
	FindByUIDs(ctx context.Context, uids []string) ([]*model.Member, error)
	List(ctx context.Context, search string, offset, limit int) ([]*model.Member, int64, error)
	UpdateByUID(ctx context.Context, uid string, upd model.MemberUpdate) (*model.Member, error)
}

type MemberService struct {
	repo MemberRepository
}

func NewMemberService(repo MemberRepository) *MemberService {
	return &MemberService{repo: repo}
}

func (s *MemberService) List(ctx context.Context, search string, page, limit int) ([]*model.Member, int64, error) {
	return s.repo.List(ctx, search, (page-1)*limit, limit)
}

func (s *MemberService) Get(ctx context.Context, uid string) (*model.Member, error) {
	return s.repo.FindByUID(ctx, uid)
}

func (s *MemberService) Create(ctx context.Context, m *model.Member) (*model.Member, error) {
	if m.UID == "" {
		return nil, pkg.Wrap(pkg.ErrValidation, "uid is required")
	}
	if m.Name == "" {
		return nil, pkg.Wrap(pkg.ErrValidation, "name is required")
	}
	if m.Email == "" {
		return nil, pkg.Wrap(pkg.ErrValidation, "email is required")
	}
	m.Skills = dedupeSkills(m.Skills)
	if m.Projects == nil {
		m.Projects = []model.Project{}
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update overwrites the allow-listed profile fields. Only the owning member
// or an administrator may edit a profile.
func (s *MemberService) Update(ctx context.Context, callerUID, targetUID string, upd model.MemberUpdate) (*model.Member, error) {
	if callerUID != targetUID {
		caller, err := s.repo.FindByUID(ctx, callerUID)
		if err != nil || caller.Role != model.RoleAdmin {
			return nil, pkg.Wrap(pkg.ErrForbidden, "only the owner or an admin can edit this profile")
		}
	}
	if upd.Name == "" {
		return nil, pkg.Wrap(pkg.ErrValidation, "name is required")
	}
	if upd.Email == "" {
		return nil, pkg.Wrap(pkg.ErrValidation, "email is required")
	}
	upd.Skills = dedupeSkills(upd.Skills)
	if upd.Projects == nil {
		upd.Projects = []model.Project{}
	}
	return s.repo.UpdateByUID(ctx, targetUID, upd)
}

// dedupeSkills keeps first occurrences; skills are a set.
func dedupeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, sk := range skills {
		if _, ok := seen[sk]; ok {
			continue
		}
		seen[sk] = struct{}{}
		out = append(out, sk)
	}
	return out
}
