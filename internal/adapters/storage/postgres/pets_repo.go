package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-adoption-scraper/internal/domain/pets"
)

const petColumns = `
	id, name, profile_url, photo_url,
	primary_breed, secondary_breed, is_mixed_breed,
	primary_color, age, sex, size, coat_length,
	adoption_fee, fee_waived,
	city, state, postal_code, latitude, longitude,
	created_at, updated_at, scraped_at
`

// queryer abstrae *sql.DB y *sql.Tx para reusar los métodos dentro y fuera
// de una transacción.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PetsRepo struct {
	db *sql.DB
	q  queryer
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db, q: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`,
		p.ID, p.Name, p.ProfileURL, p.PhotoURL,
		p.PrimaryBreed, p.SecondaryBreed, p.IsMixedBreed,
		p.PrimaryColor, p.Age, p.Sex, p.Size, p.CoatLength,
		toNullFloat(p.AdoptionFee), p.FeeWaived,
		p.City, p.State, p.PostalCode, toNullFloat(p.Latitude), toNullFloat(p.Longitude),
		p.CreatedAt, p.UpdatedAt, p.ScrapedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			profile_url = $3,
			photo_url = $4,
			primary_breed = $5,
			secondary_breed = $6,
			is_mixed_breed = $7,
			primary_color = $8,
			age = $9,
			sex = $10,
			size = $11,
			coat_length = $12,
			adoption_fee = $13,
			fee_waived = $14,
			city = $15,
			state = $16,
			postal_code = $17,
			latitude = $18,
			longitude = $19,
			updated_at = $20,
			scraped_at = $21
		WHERE id = $1
	`,
		p.ID, p.Name, p.ProfileURL, p.PhotoURL,
		p.PrimaryBreed, p.SecondaryBreed, p.IsMixedBreed,
		p.PrimaryColor, p.Age, p.Sex, p.Size, p.CoatLength,
		toNullFloat(p.AdoptionFee), p.FeeWaived,
		p.City, p.State, p.PostalCode, toNullFloat(p.Latitude), toNullFloat(p.Longitude),
		p.UpdatedAt, p.ScrapedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.q.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)

	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) FindByProfileURL(ctx context.Context, profileURL string) (pets.Pet, bool, error) {
	profileURL = strings.TrimSpace(profileURL)
	if profileURL == "" {
		return pets.Pet{}, false, nil
	}

	row := r.q.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE profile_url = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, profileURL)

	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return pets.Pet{}, false, nil
	}
	if err != nil {
		return pets.Pet{}, false, err
	}
	return p, true, nil
}

func (r *PetsRepo) List(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if b := strings.TrimSpace(f.Breed); b != "" {
		args = append(args, "%"+b+"%")
		where = append(where, fmt.Sprintf("primary_breed ILIKE $%d", len(args)))
	}
	if f.Sex != "" {
		args = append(args, f.Sex)
		where = append(where, fmt.Sprintf("sex = $%d", len(args)))
	}
	if f.Size != "" {
		args = append(args, f.Size)
		where = append(where, fmt.Sprintf("size = $%d", len(args)))
	}
	if a := strings.TrimSpace(f.Age); a != "" {
		args = append(args, "%"+a+"%")
		where = append(where, fmt.Sprintf("age ILIKE $%d", len(args)))
	}

	query := `SELECT ` + petColumns + ` FROM pets`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPets(rows)
}

func (r *PetsRepo) ListAll(ctx context.Context) ([]pets.Pet, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+petColumns+` FROM pets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPets(rows)
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM pets`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *PetsRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM pets`).Scan(&n)
	return n, err
}

// WithinTx abre una transacción y ejecuta fn contra un repo que opera sobre
// ella. Commit al final; cualquier error de fn hace rollback del batch entero.
func (r *PetsRepo) WithinTx(ctx context.Context, fn func(pets.Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &PetsRepo{db: r.db, q: tx}
	if err := fn(txRepo); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var fee, lat, lon sql.NullFloat64

	err := row.Scan(
		&p.ID, &p.Name, &p.ProfileURL, &p.PhotoURL,
		&p.PrimaryBreed, &p.SecondaryBreed, &p.IsMixedBreed,
		&p.PrimaryColor, &p.Age, &p.Sex, &p.Size, &p.CoatLength,
		&fee, &p.FeeWaived,
		&p.City, &p.State, &p.PostalCode, &lat, &lon,
		&p.CreatedAt, &p.UpdatedAt, &p.ScrapedAt,
	)
	if err != nil {
		return pets.Pet{}, err
	}

	p.AdoptionFee = fromNullFloat(fee)
	p.Latitude = fromNullFloat(lat)
	p.Longitude = fromNullFloat(lon)
	return p, nil
}

func collectPets(rows *sql.Rows) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
