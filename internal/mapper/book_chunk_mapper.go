package mapper

import (
	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type BookChunkMapper struct{}

func NewBookChunkMapper() *BookChunkMapper {
	return &BookChunkMapper{}
}

func (m *BookChunkMapper) ToEntity(c *model.BookChunk) *entity.BookChunk {
	if c == nil {
		return nil
	}
	return &entity.BookChunk{
		Id:         c.Id,
		Content:    c.Content,
		Chapter:    c.Chapter,
		Section:    c.Section,
		Heading:    c.Heading,
		ChunkIndex: c.ChunkIndex,
		WordCount:  c.WordCount,
		DocVersion: c.DocVersion,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *BookChunkMapper) ToModel(c *entity.BookChunk) *model.BookChunk {
	if c == nil {
		return nil
	}
	return &model.BookChunk{
		Id:         c.Id,
		Content:    c.Content,
		Chapter:    c.Chapter,
		Section:    c.Section,
		Heading:    c.Heading,
		ChunkIndex: c.ChunkIndex,
		WordCount:  c.WordCount,
		DocVersion: c.DocVersion,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
	}
}
