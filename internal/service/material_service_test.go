package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/repository"
)

type materialRepoStub struct {
	materials map[string]models.Material
	deleted   []string
}

func newMaterialRepoStub() *materialRepoStub {
	return &materialRepoStub{materials: map[string]models.Material{}}
}

func (r *materialRepoStub) Create(ctx context.Context, material *models.Material) error {
	r.materials[material.ID] = *material
	return nil
}

func (r *materialRepoStub) Get(ctx context.Context, id string) (models.Material, error) {
	material, ok := r.materials[id]
	if !ok {
		return models.Material{}, gorm.ErrRecordNotFound
	}
	return material, nil
}

func (r *materialRepoStub) List(ctx context.Context, filter repository.MaterialFilter) ([]models.Material, error) {
	var out []models.Material
	for _, material := range r.materials {
		out = append(out, material)
	}
	return out, nil
}

func (r *materialRepoStub) IncrementDownloads(ctx context.Context, id string) error {
	material := r.materials[id]
	material.Downloads++
	r.materials[id] = material
	return nil
}

func (r *materialRepoStub) Delete(ctx context.Context, id string) error {
	delete(r.materials, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func newMaterialFixture(repo *materialRepoStub) MaterialService {
	return NewMaterialService(repo, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestMaterialCreateDenormalizesUploader(t *testing.T) {
	repo := newMaterialRepoStub()
	svc := newMaterialFixture(repo)

	resp, err := svc.Create(context.Background(), models.User{ID: "user-1", Name: "Ayesha Khan"}, dto.MaterialCreateRequest{
		Title:    "DBMS Midterm Notes",
		Course:   "CS-301",
		Semester: 5,
		Tags:     []string{" SQL ", "Normalization"},
		FileURL:  "https://cdn.example.com/materials/dbms-notes.pdf",
		FileName: "dbms-notes.pdf",
	})
	require.NoError(t, err)
	require.Equal(t, "Ayesha Khan", resp.UploaderName)
	require.Equal(t, []string{"sql", "normalization"}, resp.Tags)
}

func TestRegisterDownloadBumpsCounter(t *testing.T) {
	repo := newMaterialRepoStub()
	repo.materials["mat-1"] = models.Material{ID: "mat-1", Title: "OS Slides", Downloads: 4}
	svc := newMaterialFixture(repo)

	resp, err := svc.RegisterDownload(context.Background(), "mat-1")
	require.NoError(t, err)
	require.Equal(t, 5, resp.Downloads)
	require.Equal(t, 5, repo.materials["mat-1"].Downloads)
}

func TestMaterialDeleteUploaderOrAdmin(t *testing.T) {
	repo := newMaterialRepoStub()
	repo.materials["mat-1"] = models.Material{ID: "mat-1", UploaderID: "user-1"}
	svc := newMaterialFixture(repo)

	require.ErrorIs(t, svc.Delete(context.Background(), "user-2", models.RoleStudent, "mat-1"), ErrNotUploader)
	require.NoError(t, svc.Delete(context.Background(), "user-2", models.RoleAdmin, "mat-1"))

	repo.materials["mat-2"] = models.Material{ID: "mat-2", UploaderID: "user-1"}
	require.NoError(t, svc.Delete(context.Background(), "user-1", models.RoleStudent, "mat-2"))
}
