// Package i18n supplies the per-language phrase templates the message
// composer renders. A yaml file can override or extend the built-in
// catalog; unknown languages fall back to English.
package i18n

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const fallbackLang = "en"

// Catalog maps language -> phrase key -> fmt template.
type Catalog struct {
	phrases map[string]map[string]string
}

// NewCatalog returns a catalog holding only the built-in defaults.
func NewCatalog() *Catalog {
	phrases := make(map[string]map[string]string, len(defaults))
	for lang, keys := range defaults {
		m := make(map[string]string, len(keys))
		for k, v := range keys {
			m[k] = v
		}
		phrases[lang] = m
	}
	return &Catalog{phrases: phrases}
}

// Load builds a catalog from the defaults merged with a yaml overrides
// file. An empty path yields the plain defaults.
func Load(path string) (*Catalog, error) {
	c := NewCatalog()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read i18n catalog: %w", err)
	}

	var overrides map[string]map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse i18n catalog: %w", err)
	}

	for lang, keys := range overrides {
		if c.phrases[lang] == nil {
			c.phrases[lang] = make(map[string]string, len(keys))
		}
		for k, v := range keys {
			c.phrases[lang][k] = v
		}
	}
	return c, nil
}

// Phrase renders the template for (lang, key) with the given arguments.
// Lookup falls back to English, then to the bare key so a missing entry
// stays visible instead of vanishing.
func (c *Catalog) Phrase(lang, key string, args ...any) string {
	tmpl, ok := c.phrases[lang][key]
	if !ok {
		tmpl, ok = c.phrases[fallbackLang][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Languages returns the languages present in the catalog.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.phrases))
	for lang := range c.phrases {
		langs = append(langs, lang)
	}
	return langs
}

var defaults = map[string]map[string]string{
	"en": {
		"status.open":          "We are open until %s.",
		"status.opening_soon":  "We open at %s, in %d minutes.",
		"status.closed_reason": "We are closed: %s.",
		"status.closed":        "We are currently closed.",
		"status.unknown":       "The current status is unavailable. Please contact the laboratory directly.",
		"next.today":           "Next opening today at %s.",
		"next.tomorrow":        "We open again tomorrow at %s.",
		"next.on_date":         "We open again on %s at %s.",
		"next.none":            "No upcoming opening is known at the moment.",
		"explain.open":         "We are open today as usual.",
		"explain.closed":       "Closed today: %s.",
		"reason.vacation":      "vacation",
		"reason.education":     "continuing education",
		"reason.conference":    "conference",
		"reason.other":         "temporarily closed",
		"reason.holiday":       "public holiday",
		"reason.weekend":       "weekend",
		"reason.exception":     "special closing",
		"reason.not_open_yet":  "outside opening hours",
	},
	"de": {
		"status.open":          "Wir haben bis %s geöffnet.",
		"status.opening_soon":  "Wir öffnen um %s, in %d Minuten.",
		"status.closed_reason": "Wir haben geschlossen: %s.",
		"status.closed":        "Wir haben derzeit geschlossen.",
		"status.unknown":       "Der aktuelle Status ist nicht verfügbar. Bitte wenden Sie sich direkt an das Labor.",
		"next.today":           "Nächste Öffnung heute um %s.",
		"next.tomorrow":        "Wir öffnen wieder morgen um %s.",
		"next.on_date":         "Wir öffnen wieder am %s um %s.",
		"next.none":            "Derzeit ist keine nächste Öffnung bekannt.",
		"explain.open":         "Wir haben heute wie gewohnt geöffnet.",
		"explain.closed":       "Heute geschlossen: %s.",
		"reason.vacation":      "Urlaub",
		"reason.education":     "Fortbildung",
		"reason.conference":    "Konferenz",
		"reason.other":         "vorübergehend geschlossen",
		"reason.holiday":       "Feiertag",
		"reason.weekend":       "Wochenende",
		"reason.exception":     "Sonderschließung",
		"reason.not_open_yet":  "außerhalb der Öffnungszeiten",
	},
	"th": {
		"status.open":          "เราเปิดให้บริการถึง %s",
		"status.opening_soon":  "เราจะเปิดเวลา %s อีก %d นาที",
		"status.closed_reason": "เราปิดทำการ: %s",
		"status.closed":        "ขณะนี้เราปิดทำการ",
		"status.unknown":       "ไม่สามารถแสดงสถานะได้ กรุณาติดต่อห้องปฏิบัติการโดยตรง",
		"next.today":           "เปิดอีกครั้งวันนี้เวลา %s",
		"next.tomorrow":        "เราจะเปิดอีกครั้งพรุ่งนี้เวลา %s",
		"next.on_date":         "เราจะเปิดอีกครั้งวันที่ %s เวลา %s",
		"next.none":            "ยังไม่ทราบเวลาเปิดครั้งถัดไป",
		"explain.open":         "วันนี้เราเปิดทำการตามปกติ",
		"explain.closed":       "วันนี้ปิดทำการ: %s",
		"reason.vacation":      "ลาพักร้อน",
		"reason.education":     "อบรม",
		"reason.conference":    "ประชุมวิชาการ",
		"reason.other":         "ปิดชั่วคราว",
		"reason.holiday":       "วันหยุดนักขัตฤกษ์",
		"reason.weekend":       "วันหยุดสุดสัปดาห์",
		"reason.exception":     "ปิดกรณีพิเศษ",
		"reason.not_open_yet":  "นอกเวลาทำการ",
	},
}
