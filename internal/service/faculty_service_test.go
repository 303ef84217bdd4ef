package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/pkg/ai"
)

type facultyRepoStub struct {
	members map[string]models.FacultyMember
}

func newFacultyRepoStub() *facultyRepoStub {
	return &facultyRepoStub{members: map[string]models.FacultyMember{}}
}

func (r *facultyRepoStub) Create(ctx context.Context, member *models.FacultyMember) error {
	r.members[member.ID] = *member
	return nil
}

func (r *facultyRepoStub) Get(ctx context.Context, id string) (models.FacultyMember, error) {
	member, ok := r.members[id]
	if !ok {
		return models.FacultyMember{}, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (r *facultyRepoStub) Update(ctx context.Context, member *models.FacultyMember) error {
	r.members[member.ID] = *member
	return nil
}

func (r *facultyRepoStub) Delete(ctx context.Context, id string) error {
	delete(r.members, id)
	return nil
}

func (r *facultyRepoStub) List(ctx context.Context, department string, limit, offset int) ([]models.FacultyMember, error) {
	var out []models.FacultyMember
	for _, member := range r.members {
		out = append(out, member)
	}
	return out, nil
}

func (r *facultyRepoStub) Search(ctx context.Context, term string, limit int) ([]models.FacultyMember, error) {
	return nil, nil
}

type emailDrafterStub struct {
	input ai.EmailInput
	draft ai.EmailDraft
	err   error
}

func (d *emailDrafterStub) DraftEmail(ctx context.Context, input ai.EmailInput) (ai.EmailDraft, error) {
	d.input = input
	return d.draft, d.err
}

func newFacultyService(repo *facultyRepoStub, drafter ai.EmailDrafter) FacultyService {
	return NewFacultyService(repo, drafter, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestFacultyCreateNormalizesEmail(t *testing.T) {
	repo := newFacultyRepoStub()
	svc := newFacultyService(repo, nil)

	resp, err := svc.Create(context.Background(), dto.FacultyCreateRequest{
		Name:       "Dr. Nadeem Akhtar",
		Department: "Computer Science",
		Email:      "Nadeem.Akhtar@NU.EDU.PK",
	})
	require.NoError(t, err)
	require.Equal(t, "nadeem.akhtar@nu.edu.pk", resp.Email)
}

func TestDraftEmailAddressesRecipient(t *testing.T) {
	repo := newFacultyRepoStub()
	repo.members["fac-1"] = models.FacultyMember{
		ID:          "fac-1",
		Name:        "Dr. Nadeem Akhtar",
		Designation: "Associate Professor",
		Email:       "nadeem.akhtar@nu.edu.pk",
	}
	drafter := &emailDrafterStub{draft: ai.EmailDraft{
		Subject: "Request for project meeting",
		Body:    "Respected Dr. Nadeem Akhtar, ...",
	}}
	svc := newFacultyService(repo, drafter)

	resp, err := svc.DraftEmail(context.Background(), "Ayesha Khan", "fac-1", dto.EmailDraftRequest{
		Intent: "request a meeting about my final year project",
		Points: []string{"available after 3pm"},
	})
	require.NoError(t, err)
	require.Equal(t, "nadeem.akhtar@nu.edu.pk", resp.To)
	require.Equal(t, "Request for project meeting", resp.Subject)
	require.Equal(t, "Dr. Nadeem Akhtar", drafter.input.RecipientName)
	require.Equal(t, "Ayesha Khan", drafter.input.SenderName)
}

func TestDraftEmailWithoutProvider(t *testing.T) {
	repo := newFacultyRepoStub()
	repo.members["fac-1"] = models.FacultyMember{ID: "fac-1"}
	svc := newFacultyService(repo, nil)

	_, err := svc.DraftEmail(context.Background(), "Ayesha Khan", "fac-1", dto.EmailDraftRequest{
		Intent: "ask about grading",
	})
	require.ErrorIs(t, err, ErrDraftingUnavailable)
}
