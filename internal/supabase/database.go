package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campaign-studio-backend/internal/database"
	"campaign-studio-backend/internal/models"

	"github.com/lib/pq"
)

// DatabaseClient is the Postgres-backed document and marketing strength store.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.UploadedDocument, error) {
	var doc models.UploadedDocument
	var docType string
	if err := row.Scan(
		&doc.ID, &doc.Name, &doc.URL, &docType,
		&doc.OwnerUserID, &doc.CreatedAt, &doc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	doc.DocumentType = models.ParseDocumentType(docType)
	return &doc, nil
}

func (d *DatabaseClient) CreateDocument(ctx context.Context, doc *models.UploadedDocument) error {
	created, err := scanDocument(d.db.QueryRowContext(ctx, database.InsertPDF,
		doc.Name, doc.URL, string(doc.DocumentType), doc.OwnerUserID,
	))
	if err != nil {
		return fmt.Errorf("failed to create pdf: %w", err)
	}

	*doc = *created
	return nil
}

func (d *DatabaseClient) GetDocument(ctx context.Context, id int64) (*models.UploadedDocument, error) {
	doc, err := scanDocument(d.db.QueryRowContext(ctx, database.SelectPDFByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pdf: %w", err)
	}

	return doc, nil
}

func (d *DatabaseClient) ListDocuments(ctx context.Context, userID string) ([]models.UploadedDocument, error) {
	rows, err := d.db.QueryContext(ctx, database.SelectPDFsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pdfs: %w", err)
	}
	defer rows.Close()

	docs := []models.UploadedDocument{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pdf: %w", err)
		}
		docs = append(docs, *doc)
	}

	return docs, rows.Err()
}

func (d *DatabaseClient) CreateMarketingStrength(ctx context.Context, record *models.GeneratedMarketingStrength) error {
	p := record.Parameters
	err := d.db.QueryRowContext(ctx, database.InsertMarketingStrength,
		pq.Array(p.SelectedEpisodes), p.CampaignGoal, pq.Array(p.CampaignKPIs), p.Gender,
		pq.Array(p.Ethnicity), pq.Array(p.Age), pq.Array(p.FansOf),
		record.Output1, record.Output2, record.Output3, record.OwnerUserID,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create marketing strength: %w", err)
	}

	return nil
}

func (d *DatabaseClient) ListMarketingStrengths(ctx context.Context, userID string, limit int) ([]models.GeneratedMarketingStrength, error) {
	rows, err := d.db.QueryContext(ctx, database.SelectMarketingStrengthsByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list marketing strengths: %w", err)
	}
	defer rows.Close()

	records := []models.GeneratedMarketingStrength{}
	for rows.Next() {
		var r models.GeneratedMarketingStrength
		p := &r.Parameters
		if err := rows.Scan(
			&r.ID, pq.Array(&p.SelectedEpisodes), &p.CampaignGoal, pq.Array(&p.CampaignKPIs), &p.Gender,
			pq.Array(&p.Ethnicity), pq.Array(&p.Age), pq.Array(&p.FansOf),
			&r.Output1, &r.Output2, &r.Output3, &r.OwnerUserID, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan marketing strength: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
