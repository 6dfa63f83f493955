package entity

// CsvColumnMapping relación entre una cabecera CSV y un campo del tipo de dato importado.
type CsvColumnMapping struct {
	ID          string
	DataType    string
	CsvHeader   string
	ModelField  string
	Order       int
	IsUpdateKey bool
	IsActive    bool
}

// QrCodeAction regla que asocia un patrón de código QR con una acción.
// Rule es texto de la mini-DSL de acciones, nunca código ejecutable.
type QrCodeAction struct {
	ID          string
	Name        string
	Description string
	Pattern     string
	Rule        string
	Priority    int
	IsActive    bool
}

// DisplaySetting configuración de presentación de un campo en los listados.
type DisplaySetting struct {
	ModelName     string
	FieldName     string
	DisplayName   string
	Order         int
	IsListDisplay bool
	IsSearchField bool
	IsListFilter  bool
}
