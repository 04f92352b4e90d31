package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assochub/internal/model"
	"assochub/internal/pkg"
)

func TestCreateMemberDedupesSkills(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	m, err := svc.Create(context.TODO(), &model.Member{
		UID:    "m1",
		Name:   "Ada",
		Email:  "ada@example.com",
		Skills: []string{"go", "sql", "go"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, m.Skills)
	assert.Equal(t, []model.Project{}, m.Projects)
}

func TestCreateMemberValidation(t *testing.T) {
	svc := NewMemberService(newFakeMemberRepo())

	_, err := svc.Create(context.TODO(), &model.Member{UID: "m1", Email: "a@b.c"})
	assert.ErrorIs(t, err, pkg.ErrValidation)
}

func TestCreateMemberDuplicateUID(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.put(&model.Member{UID: "m1", Name: "Ada", Email: "ada@example.com"})
	svc := NewMemberService(repo)

	_, err := svc.Create(context.TODO(), &model.Member{UID: "m1", Name: "Other", Email: "o@example.com"})
	assert.ErrorIs(t, err, pkg.ErrDuplicate)
}

func TestUpdateMemberOwnerCanEdit(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.put(&model.Member{UID: "m1", Name: "Ada", Email: "ada@example.com"})
	svc := NewMemberService(repo)

	m, err := svc.Update(context.TODO(), "m1", "m1", model.MemberUpdate{
		Name:  "Ada L",
		Email: "ada@example.com",
		Bio:   "builds things",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", m.Name)
	assert.Equal(t, "builds things", m.Bio)
}

func TestUpdateMemberAdminCanEditOthers(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.put(&model.Member{UID: "admin", Name: "Root", Email: "root@example.com", Role: model.RoleAdmin})
	repo.put(&model.Member{UID: "m1", Name: "Ada", Email: "ada@example.com"})
	svc := NewMemberService(repo)

	m, err := svc.Update(context.TODO(), "admin", "m1", model.MemberUpdate{Name: "Renamed", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", m.Name)
}

func TestUpdateMemberForbiddenForOthers(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.put(&model.Member{UID: "m1", Name: "Ada", Email: "ada@example.com"})
	repo.put(&model.Member{UID: "m2", Name: "Eve", Email: "eve@example.com"})
	svc := NewMemberService(repo)

	_, err := svc.Update(context.TODO(), "m2", "m1", model.MemberUpdate{Name: "Hijacked", Email: "x@example.com"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	m, _ := repo.FindByUID(context.TODO(), "m1")
	assert.Equal(t, "Ada", m.Name)
}

func TestUpdateMemberUnknownTarget(t *testing.T) {
	svc := NewMemberService(newFakeMemberRepo())

	_, err := svc.Update(context.TODO(), "m1", "m1", model.MemberUpdate{Name: "A", Email: "a@b.c"})
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
