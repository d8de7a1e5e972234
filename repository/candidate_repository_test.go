package repository

import (
	"context"
	"strings"
	"testing"

	"election-voting-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateRepository_CreateValidatesInput(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewCandidateRepository(db)
	ctx := context.Background()

	tests := []struct {
		name        string
		candidate   models.Candidate
		expectedErr error
	}{
		{
			name:        "lowercase name rejected",
			candidate:   models.Candidate{Name: "leo g.", Description: "Beschreibung"},
			expectedErr: ErrInvalidCandidateName,
		},
		{
			name:        "missing initial rejected",
			candidate:   models.Candidate{Name: "Leo", Description: "Beschreibung"},
			expectedErr: ErrInvalidCandidateName,
		},
		{
			name:        "empty description rejected",
			candidate:   models.Candidate{Name: "Leo G.", Description: ""},
			expectedErr: ErrInvalidCandidateDescription,
		},
		{
			name:        "overlong description rejected",
			candidate:   models.Candidate{Name: "Leo G.", Description: strings.Repeat("A", 141)},
			expectedErr: ErrInvalidCandidateDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &tt.candidate)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}

	// nothing must have been persisted
	var count int64
	db.Model(&models.Candidate{}).Count(&count)
	assert.Zero(t, count)
}

func TestCandidateRepository_CreateAndFind(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewCandidateRepository(db)
	ctx := context.Background()

	candidate := models.Candidate{Name: "Anna Maria S.", Description: "Expertin für Soziales"}
	require.NoError(t, repo.Create(ctx, &candidate))
	require.NotZero(t, candidate.ID)

	found, err := repo.FindByID(ctx, candidate.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Anna Maria S.", found.Name)

	missing, err := repo.FindByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCandidateRepository_FindAllOrderedByName(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewCandidateRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Maria K.", "Anna S.", "Leo G."} {
		require.NoError(t, repo.Create(ctx, &models.Candidate{Name: name, Description: "Beschreibung für " + name}))
	}

	candidates, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.Equal(t, "Anna S.", candidates[0].Name)
	assert.Equal(t, "Leo G.", candidates[1].Name)
	assert.Equal(t, "Maria K.", candidates[2].Name)
}
