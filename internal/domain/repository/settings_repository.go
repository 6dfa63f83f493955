package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// CsvMappingRepository mapeos de columnas CSV (configuración externa, solo lectura).
type CsvMappingRepository interface {
	ListActive(ctx context.Context, dataType string) ([]*entity.CsvColumnMapping, error)
}

// QrActionRepository reglas de acción QR.
type QrActionRepository interface {
	Create(ctx context.Context, a *entity.QrCodeAction) error
	List(ctx context.Context) ([]*entity.QrCodeAction, error)
}

// DisplaySettingRepository configuración de presentación.
type DisplaySettingRepository interface {
	ListAll(ctx context.Context) ([]*entity.DisplaySetting, error)
}

// ImportRepository escritura genérica de filas importadas sobre tablas de la lista blanca.
type ImportRepository interface {
	// UpsertRow actualiza la fila que coincide con keys o la crea; created indica cuál ocurrió.
	UpsertRow(ctx context.Context, target *entity.ImportTarget, keys, values map[string]any) (created bool, err error)
}

// InspectionRepository ítems de inspección de calidad.
type InspectionRepository interface {
	Create(ctx context.Context, item *entity.InspectionItem) error
	GetByID(ctx context.Context, id string) (*entity.InspectionItem, error)
	List(ctx context.Context, limit, offset int) ([]*entity.InspectionItem, error)
}
