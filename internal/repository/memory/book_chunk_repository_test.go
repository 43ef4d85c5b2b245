package memory

import (
	"context"
	"testing"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChunks(t *testing.T, repo *BookChunkRepository) {
	t.Helper()
	err := repo.CreateBulk(context.Background(), []*entity.BookChunk{
		{Content: "cells divide by mitosis", Chapter: "3", Section: "3.1", DocVersion: "v1", Embedding: []float32{1, 0, 0}},
		{Content: "osmosis moves water across membranes", Chapter: "3", Section: "3.2", DocVersion: "v1", Embedding: []float32{0, 1, 0}},
		{Content: "glossary of terms", Chapter: "9", Section: "9.1", DocVersion: "v2", Embedding: []float32{0.7, 0.7, 0}},
	})
	require.NoError(t, err)
}

func TestSearchSimilarRanksByCosine(t *testing.T) {
	repo := NewBookChunkRepository()
	seedChunks(t, repo)

	got, err := repo.SearchSimilar(context.Background(), []float32{1, 0, 0}, contract.SearchParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cells divide by mitosis", got[0].Content)
	assert.Equal(t, "glossary of terms", got[1].Content)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestSearchSimilarAppliesFilters(t *testing.T) {
	repo := NewBookChunkRepository()
	seedChunks(t, repo)

	got, err := repo.SearchSimilar(context.Background(), []float32{1, 0, 0}, contract.SearchParams{
		Limit:   5,
		Filters: map[string]string{"chapter": "3"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, chunk := range got {
		assert.Equal(t, "3", chunk.Chapter)
	}
}

func TestDeleteByDocVersion(t *testing.T) {
	repo := NewBookChunkRepository()
	seedChunks(t, repo)

	require.NoError(t, repo.DeleteByDocVersion(context.Background(), "v1"))

	remaining, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)

	got, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].DocVersion)
}
