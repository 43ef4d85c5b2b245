package implementation

import (
	"context"
	"errors"
	"fmt"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/mapper"
	"book-chatbot-be/internal/model"
	"book-chatbot-be/internal/repository/contract"
	"book-chatbot-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Columns that SearchParams.Filters may reference. Anything else is
// rejected so filter keys never reach SQL as identifiers.
var filterableChunkColumns = map[string]bool{
	"chapter":     true,
	"section":     true,
	"doc_version": true,
}

type BookChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookChunkMapper
}

func NewBookChunkRepository(db *gorm.DB) contract.BookChunkRepository {
	return &BookChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookChunkMapper(),
	}
}

func (r *BookChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.BookChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.BookChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.BookChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *BookChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BookChunk, error) {
	var m model.BookChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookChunk, error) {
	var models []*model.BookChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.BookChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *BookChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.BookChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookChunkRepositoryImpl) DeleteByDocVersion(ctx context.Context, docVersion string) error {
	return r.db.WithContext(ctx).Where("doc_version = ?", docVersion).Delete(&model.BookChunk{}).Error
}

func (r *BookChunkRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, params contract.SearchParams) ([]*entity.RetrievedChunk, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so the
	// score surfaced to callers is 1 - (embedding <=> query).
	type result struct {
		model.BookChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	// ef_search is transaction-scoped, so the SET LOCAL and the search
	// must share one transaction.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if params.EfSearch > 0 {
			if err := tx.Exec(fmt.Sprintf("SET LOCAL hnsw.ef_search = %d", params.EfSearch)).Error; err != nil {
				return err
			}
		}

		query := tx.
			Table("book_chunks").
			Select("book_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector)

		for column, value := range params.Filters {
			if !filterableChunkColumns[column] {
				return fmt.Errorf("unsupported search filter: %s", column)
			}
			query = query.Where(fmt.Sprintf("%s = ?", column), value)
		}

		return query.
			Order("similarity DESC").
			Limit(limit).
			Scan(&results).Error
	})
	if err != nil {
		return nil, err
	}

	retrieved := make([]*entity.RetrievedChunk, len(results))
	for i, res := range results {
		retrieved[i] = &entity.RetrievedChunk{
			Id:         res.Id,
			Content:    res.Content,
			Chapter:    res.Chapter,
			Section:    res.Section,
			Heading:    res.Heading,
			ChunkIndex: res.ChunkIndex,
			Score:      res.Similarity,
		}
	}
	return retrieved, nil
}
