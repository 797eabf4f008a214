package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"dsa_portal_backend/internal/dsa/domain"
	"dsa_portal_backend/platform/apperr"
)

const dsaNotFoundMessage = "DSA not found"

const dsaColumns = `id, unique_code, name, status, mobile_number, email, category, city, address,
	constitution, gstin_number, pan_number, zone_name, risk_score, registration_date,
	empanelment_date, agreement_date, products, bank_details, created_by, created_at,
	updated_by, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new DSA repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new DSA profile.
func (r *Repo) Create(ctx context.Context, dsa Dsa) (Dsa, error) {
	bank, err := marshalBank(dsa.BankDetails)
	if err != nil {
		return Dsa{}, err
	}

	query := `
		INSERT INTO dsas (id, unique_code, name, status, mobile_number, email, category, city, address,
			constitution, gstin_number, pan_number, zone_name, risk_score, registration_date,
			empanelment_date, agreement_date, products, bank_details, created_by, created_at,
			updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	_, err = r.pool.Exec(ctx, query,
		dsa.ID, dsa.UniqueCode, dsa.Name, dsa.Status, dsa.MobileNumber, dsa.Email, dsa.Category,
		dsa.City, dsa.Address, dsa.Constitution, dsa.GstinNumber, dsa.PanNumber, dsa.ZoneName,
		dsa.RiskScore, dsa.RegistrationDate, dsa.EmpanelmentDate, dsa.AgreementDate, dsa.Products,
		bank, dsa.CreatedBy, dsa.CreatedAt, dsa.UpdatedBy, dsa.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Dsa{}, apperr.Conflict("DSA unique code already exists")
		}
		return Dsa{}, fmt.Errorf("create dsa: %w", err)
	}

	return r.GetByID(ctx, dsa.ID)
}

// GetByID retrieves a DSA profile by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Dsa, error) {
	query := `SELECT ` + dsaColumns + ` FROM dsas WHERE id = $1`

	dsa, err := scanDsa(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Dsa{}, apperr.NotFound(dsaNotFoundMessage)
		}
		return Dsa{}, fmt.Errorf("get dsa by id: %w", err)
	}

	docs, err := r.listDocuments(ctx, id)
	if err != nil {
		return Dsa{}, err
	}
	dsa.Documents = docs

	return dsa, nil
}

// Update rewrites the mutable columns of an existing DSA profile.
func (r *Repo) Update(ctx context.Context, dsa Dsa) (Dsa, error) {
	bank, err := marshalBank(dsa.BankDetails)
	if err != nil {
		return Dsa{}, err
	}

	query := `
		UPDATE dsas
		SET name = $2, mobile_number = $3, email = $4, category = $5, city = $6, address = $7,
			constitution = $8, gstin_number = $9, pan_number = $10, zone_name = $11, risk_score = $12,
			registration_date = $13, empanelment_date = $14, agreement_date = $15, products = $16,
			bank_details = $17, updated_by = $18, updated_at = $19
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		dsa.ID, dsa.Name, dsa.MobileNumber, dsa.Email, dsa.Category, dsa.City, dsa.Address,
		dsa.Constitution, dsa.GstinNumber, dsa.PanNumber, dsa.ZoneName, dsa.RiskScore,
		dsa.RegistrationDate, dsa.EmpanelmentDate, dsa.AgreementDate, dsa.Products, bank,
		dsa.UpdatedBy, dsa.UpdatedAt,
	)
	if err != nil {
		return Dsa{}, fmt.Errorf("update dsa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Dsa{}, apperr.NotFound(dsaNotFoundMessage)
	}

	return r.GetByID(ctx, dsa.ID)
}

// UpdateStatus overwrites the status without any transition check.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, actor string, at time.Time) error {
	query := `UPDATE dsas SET status = $2, updated_by = $3, updated_at = $4 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status, actor, at)
	if err != nil {
		return fmt.Errorf("update dsa status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(dsaNotFoundMessage)
	}
	return nil
}

// Search lists DSA profiles with optional AND-combined filters.
func (r *Repo) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	where := []string{"TRUE"}
	args := []interface{}{}

	if params.Category != nil {
		args = append(args, *params.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM dsas WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return SearchResult{}, fmt.Errorf("count dsas: %w", err)
	}

	args = append(args, params.PageSize, params.Page*params.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM dsas WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		dsaColumns, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search dsas: %w", err)
	}
	defer rows.Close()

	items := make([]Dsa, 0)
	for rows.Next() {
		dsa, err := scanDsa(rows)
		if err != nil {
			return SearchResult{}, fmt.Errorf("scan dsa: %w", err)
		}
		items = append(items, dsa)
	}
	if err := rows.Err(); err != nil {
		return SearchResult{}, err
	}

	return SearchResult{Items: items, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}

// ReplaceDocuments rewrites the document set of a DSA in one transaction.
func (r *Repo) ReplaceDocuments(ctx context.Context, dsaID uuid.UUID, docs []Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace documents: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM dsa_documents WHERE dsa_id = $1`, dsaID); err != nil {
		return fmt.Errorf("clear dsa documents: %w", err)
	}

	for _, doc := range docs {
		_, err := tx.Exec(ctx, `
			INSERT INTO dsa_documents (id, dsa_id, document_type, file_name, storage_path, uploaded_by, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			doc.ID, dsaID, doc.DocumentType, doc.FileName, doc.StoragePath, doc.UploadedBy, doc.UploadedAt,
		)
		if err != nil {
			return fmt.Errorf("insert dsa document: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace documents: %w", err)
	}
	return nil
}

func (r *Repo) listDocuments(ctx context.Context, dsaID uuid.UUID) ([]Document, error) {
	query := `
		SELECT id, dsa_id, document_type, file_name, storage_path, uploaded_by, uploaded_at
		FROM dsa_documents WHERE dsa_id = $1 ORDER BY uploaded_at`

	rows, err := r.pool.Query(ctx, query, dsaID)
	if err != nil {
		return nil, fmt.Errorf("list dsa documents: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.DsaID, &doc.DocumentType, &doc.FileName, &doc.StoragePath, &doc.UploadedBy, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan dsa document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func scanDsa(row pgx.Row) (Dsa, error) {
	var dsa Dsa
	var bank []byte

	err := row.Scan(
		&dsa.ID, &dsa.UniqueCode, &dsa.Name, &dsa.Status, &dsa.MobileNumber, &dsa.Email,
		&dsa.Category, &dsa.City, &dsa.Address, &dsa.Constitution, &dsa.GstinNumber,
		&dsa.PanNumber, &dsa.ZoneName, &dsa.RiskScore, &dsa.RegistrationDate,
		&dsa.EmpanelmentDate, &dsa.AgreementDate, &dsa.Products, &bank,
		&dsa.CreatedBy, &dsa.CreatedAt, &dsa.UpdatedBy, &dsa.UpdatedAt,
	)
	if err != nil {
		return Dsa{}, err
	}

	if bank != nil {
		if err := json.Unmarshal(bank, &dsa.BankDetails); err != nil {
			return Dsa{}, fmt.Errorf("decode bank details: %w", err)
		}
	}

	return dsa, nil
}

func marshalBank(bank *BankDetails) ([]byte, error) {
	if bank == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(bank)
	if err != nil {
		return nil, fmt.Errorf("encode bank details: %w", err)
	}
	return encoded, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
