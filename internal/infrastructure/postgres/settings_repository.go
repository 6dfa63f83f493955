package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var (
	_ repository.CsvMappingRepository     = (*CsvMappingRepo)(nil)
	_ repository.QrActionRepository       = (*QrActionRepo)(nil)
	_ repository.DisplaySettingRepository = (*DisplaySettingRepo)(nil)
)

// CsvMappingRepo mapeos de columnas CSV.
type CsvMappingRepo struct {
	q Querier
}

// NewCsvMappingRepository construye el adaptador.
func NewCsvMappingRepository(q Querier) *CsvMappingRepo {
	return &CsvMappingRepo{q: q}
}

// ListActive mapeos activos de un tipo de dato en su orden de plantilla.
func (r *CsvMappingRepo) ListActive(ctx context.Context, dataType string) ([]*entity.CsvColumnMapping, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::TEXT, data_type, csv_header, model_field, sort_order, is_update_key, is_active
		FROM csv_column_mappings WHERE data_type = $1 AND is_active
		ORDER BY sort_order, csv_header`, dataType)
	if err != nil {
		return nil, fmt.Errorf("list csv mappings: %w", err)
	}
	defer rows.Close()
	var list []*entity.CsvColumnMapping
	for rows.Next() {
		var m entity.CsvColumnMapping
		if err := rows.Scan(&m.ID, &m.DataType, &m.CsvHeader, &m.ModelField, &m.Order, &m.IsUpdateKey, &m.IsActive); err != nil {
			return nil, fmt.Errorf("scan csv mapping: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// QrActionRepo reglas de acción QR.
type QrActionRepo struct {
	q Querier
}

// NewQrActionRepository construye el adaptador.
func NewQrActionRepository(q Querier) *QrActionRepo {
	return &QrActionRepo{q: q}
}

// Create persiste una regla; el nombre es único.
func (r *QrActionRepo) Create(ctx context.Context, a *entity.QrCodeAction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO qr_code_actions (id, name, description, pattern, rule, priority, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Name, a.Description, a.Pattern, a.Rule, a.Priority, a.IsActive)
	return mapError("insert qr action", err)
}

// List todas las reglas por prioridad.
func (r *QrActionRepo) List(ctx context.Context) ([]*entity.QrCodeAction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::TEXT, name, description, pattern, rule, priority, is_active
		FROM qr_code_actions ORDER BY priority, name`)
	if err != nil {
		return nil, fmt.Errorf("list qr actions: %w", err)
	}
	defer rows.Close()
	var list []*entity.QrCodeAction
	for rows.Next() {
		var a entity.QrCodeAction
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Pattern, &a.Rule, &a.Priority, &a.IsActive); err != nil {
			return nil, fmt.Errorf("scan qr action: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// DisplaySettingRepo configuración de presentación.
type DisplaySettingRepo struct {
	q Querier
}

// NewDisplaySettingRepository construye el adaptador.
func NewDisplaySettingRepository(q Querier) *DisplaySettingRepo {
	return &DisplaySettingRepo{q: q}
}

// ListAll toda la tabla de presentación.
func (r *DisplaySettingRepo) ListAll(ctx context.Context) ([]*entity.DisplaySetting, error) {
	rows, err := r.q.Query(ctx, `
		SELECT model_name, field_name, display_name, sort_order, is_list_display, is_search_field, is_list_filter
		FROM model_display_settings ORDER BY model_name, sort_order, field_name`)
	if err != nil {
		return nil, fmt.Errorf("list display settings: %w", err)
	}
	defer rows.Close()
	var list []*entity.DisplaySetting
	for rows.Next() {
		var d entity.DisplaySetting
		if err := rows.Scan(&d.ModelName, &d.FieldName, &d.DisplayName, &d.Order,
			&d.IsListDisplay, &d.IsSearchField, &d.IsListFilter); err != nil {
			return nil, fmt.Errorf("scan display setting: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
