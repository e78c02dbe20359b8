// Package templates is the process-wide table of contract templates and
// contract kinds. Nothing here performs I/O; the same identifier always
// yields the same template.
package templates

import (
	"regexp"
	"sort"
)

// DefaultKind is used for identifiers without a template of their own.
const DefaultKind = "services"

// RentKind switches the form to the extended rent field set.
const RentKind = "rent"

// Kind describes a selectable contract type.
type Kind struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var kinds = []Kind{
	{ID: "services", Name: "Послуги", Icon: "services"},
	{ID: "rent", Name: "Оренда", Icon: "rent"},
	{ID: "sale", Name: "Купівля-продаж", Icon: "sale"},
	{ID: "nda", Name: "NDA", Icon: "lock"},
	{ID: "subcontract", Name: "Підряд", Icon: "document"},
	{ID: "employment", Name: "Трудовий договір", Icon: "briefcase"},
	{ID: "loan", Name: "Позика", Icon: "credit"},
	{ID: "partnership", Name: "Партнерство", Icon: "handshake"},
	{ID: "license", Name: "Ліцензія", Icon: "certificate"},
	{ID: "franchise", Name: "Франшиза", Icon: "store"},
	{ID: "consulting", Name: "Консалтинг", Icon: "briefcase"},
	{ID: "development", Name: "Розробка", Icon: "code"},
	{ID: "marketing", Name: "Маркетинг", Icon: "megaphone"},
	{ID: "maintenance", Name: "Обслуговування", Icon: "tools"},
	{ID: "delivery", Name: "Доставка", Icon: "truck"},
	{ID: "storage", Name: "Зберігання", Icon: "box"},
	{ID: "insurance", Name: "Страхування", Icon: "shield"},
	{ID: "guarantee", Name: "Гарантія", Icon: "check"},
	{ID: "confidentiality", Name: "Конфіденційність", Icon: "lock"},
	{ID: "noncompete", Name: "Не конкуренція", Icon: "ban"},
}

var byKind = map[string]string{
	"services": servicesTemplate,
	"rent":     rentTemplate,
	"sale":     saleTemplate,
	"nda":      ndaTemplate,
}

// listNames are the headings used when listing generated contracts.
var listNames = map[string]string{
	"services":        "Договір про послуги",
	"rent":            "Договір оренди",
	"sale":            "Договір купівлі-продажу",
	"employment":      "Трудовий договір",
	"confidentiality": "Угода про конфіденційність",
}

var tokenPattern = regexp.MustCompile(`\{([A-Z_]+)\}`)

// Kinds returns the selectable contract kinds in display order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// FindKind looks up a kind by identifier.
func FindKind(id string) (Kind, bool) {
	for _, k := range kinds {
		if k.ID == id {
			return k, true
		}
	}
	return Kind{}, false
}

// Get returns the template for kind, or the services template when the kind
// has none of its own.
func Get(kind string) string {
	if tpl, ok := byKind[kind]; ok {
		return tpl
	}
	return byKind[DefaultKind]
}

// Lookup reports whether kind has a dedicated template.
func Lookup(kind string) (string, bool) {
	tpl, ok := byKind[kind]
	return tpl, ok
}

// ListName is the heading shown for a generated contract in history lists.
func ListName(kind string) string {
	if name, ok := listNames[kind]; ok {
		return name
	}
	return kind
}

// Tokens returns the distinct token names used in tpl, sorted.
func Tokens(tpl string) []string {
	seen := make(map[string]struct{})
	for _, m := range tokenPattern.FindAllStringSubmatch(tpl, -1) {
		seen[m[1]] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dedicated lists the kinds that have a template of their own, sorted.
func Dedicated() []string {
	out := make([]string, 0, len(byKind))
	for kind := range byKind {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
