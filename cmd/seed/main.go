// seed genera el script SQL de configuración inicial: mapeos de columnas CSV, configuración
// de presentación de listados y reglas de acción QR.
//
// Uso: go run ./cmd/seed [ruta/mapeos.csv [utf-8|shift_jis]]
// Sin archivo usa los mapeos por defecto. El CSV de mapeos lleva las columnas
// data_type,csv_header,model_field,order,is_update_key (con fila de encabezados).
// Escribe: internal/infrastructure/postgres/migrations/000002_seed_settings.{up,down}.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/qrrule"
)

type mapping struct {
	dataType, header, field string
	order                   int
	updateKey               bool
}

type display struct {
	model, field, name     string
	order                  int
	list, search, filterBy bool
}

type qrAction struct {
	name, description, pattern, rule string
	priority                         int
}

var defaultMappings = []mapping{
	{"item", "品番", "code", 1, true},
	{"item", "品名", "name", 2, false},
	{"item", "品目区分", "item_type", 3, false},
	{"item", "単位", "unit", 4, false},
	{"item", "入庫倉庫", "default_warehouse", 5, false},
	{"item", "入庫棚番", "default_location", 6, false},
	{"supplier", "仕入先番号", "supplier_number", 1, true},
	{"supplier", "仕入先名", "name", 2, false},
	{"supplier", "担当者", "contact_person", 3, false},
	{"supplier", "電話番号", "phone", 4, false},
	{"warehouse", "倉庫番号", "warehouse_number", 1, true},
	{"warehouse", "倉庫名", "name", 2, false},
	{"warehouse", "所在地", "location", 3, false},
	{"machine", "機械番号", "machine_number", 1, true},
	{"machine", "機械名", "name", 2, false},
	{"machine", "機種", "machine_type", 3, false},
	{"purchase_order", "発注番号", "order_number", 1, true},
	{"purchase_order", "仕入先番号", "supplier_number", 2, false},
	{"purchase_order", "品番", "part_number", 3, false},
	{"purchase_order", "品名", "product_name", 4, false},
	{"purchase_order", "発注数量", "quantity", 5, false},
	{"purchase_order", "入荷予定日", "expected_arrival", 6, false},
	{"purchase_order", "入庫倉庫", "warehouse", 7, false},
	{"purchase_order", "入庫棚番", "location", 8, false},
	{"sales_order", "受注番号", "order_number", 1, true},
	{"sales_order", "品番", "item", 2, false},
	{"sales_order", "受注数量", "quantity", 3, false},
	{"sales_order", "出荷予定日", "expected_shipment", 4, false},
	{"production_plan", "計画名", "plan_name", 1, true},
	{"production_plan", "製品コード", "product_code", 2, false},
	{"production_plan", "生産計画", "production_plan_ref", 3, false},
	{"production_plan", "計画数量", "planned_quantity", 4, false},
	{"production_plan", "開始予定", "planned_start", 5, false},
	{"production_plan", "終了予定", "planned_end", 6, false},
	{"parts_used", "生産計画", "production_plan", 1, true},
	{"parts_used", "部品コード", "part_code", 2, true},
	{"parts_used", "倉庫", "warehouse", 3, true},
	{"parts_used", "使用数量", "quantity_used", 4, false},
}

var defaultDisplay = []display{
	{"inventory", "part_number", "品番", 1, true, true, false},
	{"inventory", "warehouse", "倉庫", 2, true, false, true},
	{"inventory", "location", "棚番", 3, true, true, false},
	{"inventory", "quantity", "在庫数", 4, true, false, false},
	{"inventory", "reserved", "引当数", 5, true, false, false},
	{"inventory", "available_quantity", "有効在庫", 6, true, false, false},
	{"purchase_order", "order_number", "発注番号", 1, true, true, false},
	{"purchase_order", "part_number", "品番", 2, true, true, false},
	{"purchase_order", "quantity", "発注数量", 3, true, false, false},
	{"purchase_order", "received_quantity", "入庫済数量", 4, true, false, false},
	{"purchase_order", "status", "状態", 5, true, false, true},
	{"production_plan", "plan_name", "計画名", 1, true, true, false},
	{"production_plan", "product_code", "製品コード", 2, true, true, false},
	{"production_plan", "planned_start", "開始予定", 3, true, false, false},
	{"production_plan", "status", "状態", 4, true, false, true},
}

var defaultQrActions = []qrAction{
	{"棚番", "WH-LOC 形式の棚ラベル", `LOC:(?P<wh>[^:]+):(?P<loc>.+)`,
		"action = show_location\nwarehouse = ${wh}\nlocation = ${loc}", 10},
	{"品番", "品番ラベル", `P:(.+)`,
		"action = show_inventory\npart_number = ${1}", 20},
	{"発注", "発注書の QR", `PO:(.+)`,
		"action = show_purchase_order\norder_number = ${1}", 30},
}

func main() {
	mappings := defaultMappings
	if len(os.Args) > 1 {
		enc := ""
		if len(os.Args) > 2 {
			enc = os.Args[2]
		}
		var err error
		mappings, err = readMappings(os.Args[1], enc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer mapeos: %v\n", err)
			os.Exit(1)
		}
	}
	if err := checkMappings(mappings); err != nil {
		fmt.Fprintf(os.Stderr, "Mapeos inválidos: %v\n", err)
		os.Exit(1)
	}
	for _, a := range defaultQrActions {
		if _, err := qrrule.Compile(a.name, a.pattern, a.rule, a.priority); err != nil {
			fmt.Fprintf(os.Stderr, "Regla QR %q: %v\n", a.name, err)
			os.Exit(1)
		}
	}

	dir := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations")
	up := filepath.Join(dir, "000002_seed_settings.up.sql")
	if err := writeUp(up, mappings); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir %s: %v\n", up, err)
		os.Exit(1)
	}
	down := filepath.Join(dir, "000002_seed_settings.down.sql")
	if err := writeDown(down, mappings); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir %s: %v\n", down, err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d mapeos, %d campos de presentación, %d reglas QR\n",
		up, len(mappings), len(defaultDisplay), len(defaultQrActions))
}

func readMappings(path, enc string) ([]mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(enc) {
	case "", "utf-8", "utf8":
	case "shift_jis", "sjis", "cp932":
		r = transform.NewReader(f, japanese.ShiftJIS.NewDecoder())
	default:
		return nil, fmt.Errorf("codificación no soportada: %q", enc)
	}

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	var out []mapping
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("fila %d: se esperaban 5 columnas", i+1)
		}
		order, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, fmt.Errorf("fila %d: order %q", i+1, rec[3])
		}
		key, _ := strconv.ParseBool(strings.TrimSpace(rec[4]))
		out = append(out, mapping{
			dataType:  strings.TrimSpace(rec[0]),
			header:    strings.TrimSpace(rec[1]),
			field:     strings.TrimSpace(rec[2]),
			order:     order,
			updateKey: key,
		})
	}
	return out, nil
}

// checkMappings solo admite columnas del catálogo de importación y exige una clave por tipo.
func checkMappings(ms []mapping) error {
	keys := map[string]bool{}
	for _, m := range ms {
		target, ok := entity.ImportTargets[m.dataType]
		if !ok {
			return fmt.Errorf("tipo de dato desconocido %q", m.dataType)
		}
		if _, ok := target.Columns[m.field]; !ok {
			return fmt.Errorf("%s: campo %q no importable", m.dataType, m.field)
		}
		if m.updateKey {
			keys[m.dataType] = true
		}
	}
	for _, m := range ms {
		if !keys[m.dataType] {
			return fmt.Errorf("%s: falta columna clave", m.dataType)
		}
	}
	return nil
}

func writeUp(path string, mappings []mapping) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	sorted := append([]mapping(nil), mappings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].dataType != sorted[j].dataType {
			return sorted[i].dataType < sorted[j].dataType
		}
		return sorted[i].order < sorted[j].order
	})

	fmt.Fprintln(out, "-- Configuración inicial generada por cmd/seed")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "-- 1. Mapeos de columnas CSV")
	fmt.Fprintln(out, "INSERT INTO csv_column_mappings (data_type, csv_header, model_field, sort_order, is_update_key) VALUES")
	for i, m := range sorted {
		fmt.Fprintf(out, "  ('%s', '%s', '%s', %d, %t)%s\n",
			m.dataType, escapeSQL(m.header), m.field, m.order, m.updateKey, sep(i, len(sorted)))
	}
	fmt.Fprintln(out, "ON CONFLICT (data_type, csv_header) DO UPDATE SET model_field = EXCLUDED.model_field,")
	fmt.Fprintln(out, "  sort_order = EXCLUDED.sort_order, is_update_key = EXCLUDED.is_update_key;")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "-- 2. Presentación de listados")
	fmt.Fprintln(out, "INSERT INTO model_display_settings (model_name, field_name, display_name, sort_order, is_list_display, is_search_field, is_list_filter) VALUES")
	for i, d := range defaultDisplay {
		fmt.Fprintf(out, "  ('%s', '%s', '%s', %d, %t, %t, %t)%s\n",
			d.model, d.field, escapeSQL(d.name), d.order, d.list, d.search, d.filterBy, sep(i, len(defaultDisplay)))
	}
	fmt.Fprintln(out, "ON CONFLICT (model_name, field_name) DO NOTHING;")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "-- 3. Reglas de acción QR")
	fmt.Fprintln(out, "INSERT INTO qr_code_actions (id, name, description, pattern, rule, priority) VALUES")
	for i, a := range defaultQrActions {
		fmt.Fprintf(out, "  (gen_random_uuid(), '%s', '%s', '%s', E'%s', %d)%s\n",
			escapeSQL(a.name), escapeSQL(a.description), escapeSQL(a.pattern),
			strings.ReplaceAll(escapeSQL(a.rule), "\n", `\n`), a.priority, sep(i, len(defaultQrActions)))
	}
	fmt.Fprintln(out, "ON CONFLICT (name) DO NOTHING;")
	return nil
}

func writeDown(path string, mappings []mapping) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	types := map[string]bool{}
	for _, m := range mappings {
		types[m.dataType] = true
	}
	fmt.Fprintln(out, "DELETE FROM qr_code_actions WHERE name IN ("+quoteList(qrNames())+");")
	fmt.Fprintln(out, "DELETE FROM model_display_settings WHERE model_name IN ("+quoteList(displayModels())+");")
	fmt.Fprintln(out, "DELETE FROM csv_column_mappings WHERE data_type IN ("+quoteList(keysOf(types))+");")
	return nil
}

func qrNames() []string {
	out := make([]string, len(defaultQrActions))
	for i, a := range defaultQrActions {
		out[i] = a.name
	}
	return out
}

func displayModels() []string {
	set := map[string]bool{}
	for _, d := range defaultDisplay {
		set[d.model] = true
	}
	return keysOf(set)
}

func keysOf(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func quoteList(vals []string) string {
	q := make([]string, len(vals))
	for i, v := range vals {
		q[i] = "'" + escapeSQL(v) + "'"
	}
	return strings.Join(q, ", ")
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
