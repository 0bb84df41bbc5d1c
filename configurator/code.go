package configurator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CategoryPrefix returns the upper-case prefix used in design codes: the category
// code when set, otherwise derived from its name without diacritics. A one-word name
// gives its first three letters, a longer name the initials of up to four words.
func CategoryPrefix(c Category) string {
	if code := strings.TrimSpace(c.Code); code != "" {
		return strings.ToUpper(code)
	}

	// Chains carry state, so each call builds its own.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(fold, c.Name)
	if err != nil {
		plain = c.Name
	}
	plain = strings.NewReplacer("đ", "d", "Đ", "D").Replace(plain)

	words := strings.FieldsFunc(plain, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	switch len(words) {
	case 0:
		return "DS"
	case 1:
		w := []rune(words[0])
		if len(w) > 3 {
			w = w[:3]
		}
		return strings.ToUpper(string(w))
	}

	var b strings.Builder
	for i, w := range words {
		if i == 4 {
			break
		}
		b.WriteRune(unicode.ToUpper([]rune(w)[0]))
	}
	return b.String()
}

// FormatDimension formats a centimetre value without trailing zeros.
func FormatDimension(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Dimensions renders LxW or LxWxH when the height is set.
func Dimensions(d Draft) string {
	s := FormatDimension(d.Length) + "x" + FormatDimension(d.Width)
	if d.Height > 0 {
		s += "x" + FormatDimension(d.Height)
	}
	return s
}

// DesignCode builds the code of a saved design, e.g. "TUI-10x5-0007".
func DesignCode(prefix string, d Draft, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, Dimensions(d), seq)
}

// CardOption is one chosen classification on a summary card.
type CardOption struct {
	Group string
	Value string
}

// Card summarises a draft for display.
type Card struct {
	Code         string
	Name         string
	Category     string
	Material     string
	Unit         string
	Quantity     int
	MinQuantity  int
	Dimensions   string
	Finishing    string
	Options      []CardOption
	Requirements string
	Notes        string
	ReadOnly     bool
}

// BuildCard resolves the draft's references against categories and the material.
// Unknown references show their raw ids.
func BuildCard(d Draft, categories []Category, material Material) Card {
	card := Card{
		Code:         d.Code,
		Name:         d.Name,
		Category:     d.CategoryID,
		Material:     d.MaterialID,
		Quantity:     d.Quantity,
		MinQuantity:  d.MinQuantity,
		Requirements: d.Requirements,
		Notes:        d.Notes,
		ReadOnly:     d.IsFromExisting,
	}
	if c, ok := findCategory(categories, d.CategoryID); ok {
		card.Category = c.Name
	}
	if material.ID == d.MaterialID && material.ID != "" {
		card.Material = material.Name
		card.Unit = material.Unit
	}
	if d.Length > 0 || d.Width > 0 {
		card.Dimensions = strings.ReplaceAll(Dimensions(d), "x", " × ") + " cm"
	}
	if d.Finishing != "" {
		card.Finishing = d.Finishing.Label()
	}

	for _, group := range material.Classifications {
		if id, ok := d.Classifications[group.Key]; ok && id != "" {
			card.Options = append(card.Options, CardOption{
				Group: classificationLabel(group),
				Value: group.OptionLabel(id),
			})
		}
	}
	return card
}

// Card summarises the current draft.
func (w *Wizard) Card() Card {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, _ := w.activeMaterialLocked()
	return BuildCard(w.draft, w.host.Categories, m)
}
