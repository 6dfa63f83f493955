// Package qrrule evalúa las reglas de acción de códigos QR.
//
// Una regla es un patrón (expresión regular, coincidencia completa) más un bloque de
// asignaciones, una por línea:
//
//	action = show_location
//	warehouse = ${wh}
//	location = ${loc}
//
// Los valores pueden referenciar grupos con nombre (${wh}), grupos por índice (${1}) o el
// texto escaneado completo (${0}). No existe otra operación: las reglas nunca se ejecutan
// como código.
package qrrule

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// Acciones admitidas.
const (
	ActionNavigate           = "navigate"
	ActionShowInventory      = "show_inventory"
	ActionShowLocation       = "show_location"
	ActionShowPurchaseOrder  = "show_purchase_order"
	ActionShowProductionPlan = "show_production_plan"
)

var allowedActions = map[string]bool{
	ActionNavigate:           true,
	ActionShowInventory:      true,
	ActionShowLocation:       true,
	ActionShowPurchaseOrder:  true,
	ActionShowProductionPlan: true,
}

var allowedKeys = map[string]bool{
	"action":       true,
	"target":       true,
	"part_number":  true,
	"warehouse":    true,
	"location":     true,
	"order_number": true,
	"plan_id":      true,
}

type segment struct {
	literal string
	group   int // -1 = literal
}

type assignment struct {
	key      string
	segments []segment
}

// Rule regla compilada.
type Rule struct {
	Name     string
	Priority int
	re       *regexp.Regexp
	action   string
	assigns  []assignment
}

// Result acción resuelta para un texto escaneado.
type Result struct {
	Rule   string            `json:"rule"`
	Action string            `json:"action"`
	Params map[string]string `json:"params"`
}

// Compile valida y compila una regla. Los errores envuelven domain.ErrInvalidInput.
func Compile(name, pattern, body string, priority int) (*Rule, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "regla %q: patrón vacío", name)
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "regla %q: patrón inválido: %v", name, err)
	}
	r := &Rule{Name: name, Priority: priority, re: re}
	seen := map[string]bool{}
	for n, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, domain.Errorf(domain.ErrInvalidInput, "regla %q línea %d: se esperaba clave = valor", name, n+1)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !allowedKeys[key] {
			return nil, domain.Errorf(domain.ErrInvalidInput, "regla %q línea %d: clave desconocida %q", name, n+1, key)
		}
		if seen[key] {
			return nil, domain.Errorf(domain.ErrInvalidInput, "regla %q línea %d: clave repetida %q", name, n+1, key)
		}
		seen[key] = true
		if key == "action" {
			if !allowedActions[value] {
				return nil, domain.Errorf(domain.ErrInvalidInput, "regla %q línea %d: acción no admitida %q", name, n+1, value)
			}
			r.action = value
			continue
		}
		segs, err := parseTemplate(re, value)
		if err != nil {
			return nil, domain.Errorf(domain.ErrInvalidInput, "regla %q línea %d: %v", name, n+1, err)
		}
		r.assigns = append(r.assigns, assignment{key: key, segments: segs})
	}
	if r.action == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "regla %q: falta la clave action", name)
	}
	return r, nil
}

func parseTemplate(re *regexp.Regexp, value string) ([]segment, error) {
	var segs []segment
	rest := value
	for {
		i := strings.Index(rest, "${")
		if i < 0 {
			if rest != "" {
				segs = append(segs, segment{literal: rest, group: -1})
			}
			return segs, nil
		}
		if i > 0 {
			segs = append(segs, segment{literal: rest[:i], group: -1})
		}
		end := strings.IndexByte(rest[i:], '}')
		if end < 0 {
			return nil, fmt.Errorf("referencia sin cerrar en %q", value)
		}
		ref := rest[i+2 : i+end]
		idx, err := groupIndex(re, ref)
		if err != nil {
			return nil, err
		}
		segs = append(segs, segment{group: idx})
		rest = rest[i+end+1:]
	}
}

func groupIndex(re *regexp.Regexp, ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 0 || n > re.NumSubexp() {
			return 0, fmt.Errorf("grupo %d no existe en el patrón", n)
		}
		return n, nil
	}
	if idx := re.SubexpIndex(ref); idx > 0 {
		return idx, nil
	}
	return 0, fmt.Errorf("grupo %q no existe en el patrón", ref)
}

// Apply devuelve la acción resuelta si scan coincide con el patrón.
func (r *Rule) Apply(scan string) (Result, bool) {
	m := r.re.FindStringSubmatch(scan)
	if m == nil {
		return Result{}, false
	}
	params := make(map[string]string, len(r.assigns))
	for _, a := range r.assigns {
		var b strings.Builder
		for _, s := range a.segments {
			if s.group < 0 {
				b.WriteString(s.literal)
			} else {
				b.WriteString(m[s.group])
			}
		}
		params[a.key] = b.String()
	}
	return Result{Rule: r.Name, Action: r.action, Params: params}, true
}

// Engine conjunto ordenado de reglas activas.
type Engine struct {
	rules []*Rule
}

// NewEngine compila las reglas activas. Las reglas inválidas se omiten y se devuelven
// sus errores para que el llamador los registre.
func NewEngine(actions []*entity.QrCodeAction) (*Engine, []error) {
	var errs []error
	e := &Engine{}
	for _, a := range actions {
		if !a.IsActive {
			continue
		}
		r, err := Compile(a.Name, a.Pattern, a.Rule, a.Priority)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.rules = append(e.rules, r)
	}
	sort.SliceStable(e.rules, func(i, j int) bool { return e.rules[i].Priority < e.rules[j].Priority })
	return e, errs
}

// Match devuelve el resultado de la primera regla (por prioridad) que coincide.
func (e *Engine) Match(scan string) (Result, bool) {
	for _, r := range e.rules {
		if res, ok := r.Apply(scan); ok {
			return res, true
		}
	}
	return Result{}, false
}

// Len número de reglas activas compiladas.
func (e *Engine) Len() int { return len(e.rules) }
