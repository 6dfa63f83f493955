package entity

// FieldKind tipo de conversión de un valor CSV.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInt
	FieldBool
	FieldDate
	FieldDateTime
)

// ImportTarget tabla destino de un tipo de dato importable y sus columnas permitidas.
// Solo los campos listados pueden mapearse; los que llevan cantidades de inventario no
// figuran para que toda variación de existencias pase por el libro.
type ImportTarget struct {
	DataType string
	Table    string
	Columns  map[string]FieldKind
}

// ImportTargets catálogo de tipos de dato importables por CSV.
var ImportTargets = map[string]*ImportTarget{
	"item": {DataType: "item", Table: "items", Columns: map[string]FieldKind{
		"code": FieldText, "name": FieldText, "item_type": FieldText, "unit": FieldText,
		"default_warehouse": FieldText, "default_location": FieldText,
		"provision_type": FieldText, "description": FieldText,
	}},
	"supplier": {DataType: "supplier", Table: "suppliers", Columns: map[string]FieldKind{
		"supplier_number": FieldText, "name": FieldText, "contact_person": FieldText,
		"phone": FieldText, "email": FieldText, "address": FieldText,
	}},
	"warehouse": {DataType: "warehouse", Table: "warehouses", Columns: map[string]FieldKind{
		"warehouse_number": FieldText, "name": FieldText, "location": FieldText,
	}},
	"machine": {DataType: "machine", Table: "machines", Columns: map[string]FieldKind{
		"machine_number": FieldText, "name": FieldText, "machine_type": FieldText,
		"location": FieldText, "description": FieldText,
	}},
	"purchase_order": {DataType: "purchase_order", Table: "purchase_orders", Columns: map[string]FieldKind{
		"order_number": FieldText, "supplier_number": FieldText, "part_number": FieldText,
		"product_name": FieldText, "quantity": FieldInt, "order_date": FieldDateTime,
		"expected_arrival": FieldDate, "shipment_number": FieldText,
		"warehouse": FieldText, "location": FieldText, "remarks": FieldText,
	}},
	"sales_order": {DataType: "sales_order", Table: "sales_orders", Columns: map[string]FieldKind{
		"order_number": FieldText, "item": FieldText, "quantity": FieldInt,
		"expected_shipment": FieldDateTime, "warehouse": FieldText,
	}},
	"production_plan": {DataType: "production_plan", Table: "production_plans", Columns: map[string]FieldKind{
		"plan_name": FieldText, "product_code": FieldText, "production_plan_ref": FieldText,
		"planned_quantity": FieldInt, "planned_start": FieldDateTime, "planned_end": FieldDateTime,
		"remarks": FieldText,
	}},
	"parts_used": {DataType: "parts_used", Table: "parts_used", Columns: map[string]FieldKind{
		"production_plan": FieldText, "part_code": FieldText, "warehouse": FieldText,
		"quantity_used": FieldInt,
	}},
}
