package domain

import "strings"

// Variant is the closed set of genre variants that drive display metadata.
type Variant int

const (
	VariantOther Variant = iota
	VariantAction
	VariantComedy
	VariantDrama
	VariantHorror
)

// OtherGenre is the label used for the default variant and as a filter value.
const OtherGenre = "Other"

// AllGenres is the filter value that selects the whole collection.
const AllGenres = "all"

// Display holds the styling metadata attached to a genre variant.
type Display struct {
	StyleClass string `json:"styleClass"`
	BadgeClass string `json:"badgeClass"`
	Glyph      string `json:"glyph"`
}

var variantDisplay = [...]Display{
	VariantOther:  {StyleClass: "other-card", BadgeClass: "other", Glyph: "📽️"},
	VariantAction: {StyleClass: "action-card", BadgeClass: "action", Glyph: "🔥"},
	VariantComedy: {StyleClass: "comedy-card", BadgeClass: "comedy", Glyph: "😂"},
	VariantDrama:  {StyleClass: "drama-card", BadgeClass: "drama", Glyph: "🎭"},
	VariantHorror: {StyleClass: "horror-card", BadgeClass: "horror", Glyph: "👻"},
}

var namedVariants = map[string]Variant{
	"Action": VariantAction,
	"Comedy": VariantComedy,
	"Drama":  VariantDrama,
	"Horror": VariantHorror,
}

// Display returns the fixed display tuple for the variant.
func (v Variant) Display() Display {
	if v < 0 || int(v) >= len(variantDisplay) {
		return variantDisplay[VariantOther]
	}
	return variantDisplay[v]
}

func (v Variant) String() string {
	switch v {
	case VariantAction:
		return "Action"
	case VariantComedy:
		return "Comedy"
	case VariantDrama:
		return "Drama"
	case VariantHorror:
		return "Horror"
	default:
		return OtherGenre
	}
}

// Classify maps a raw catalog genre field ("Action, Adventure") to a variant and
// the label to store. Only the first comma-delimited token is considered and
// matching is case-sensitive.
func Classify(raw string) (Variant, string) {
	token := strings.TrimSpace(strings.SplitN(raw, ",", 2)[0])
	if v, ok := namedVariants[token]; ok {
		return v, token
	}
	if token == "" {
		return VariantOther, OtherGenre
	}
	return VariantOther, token
}

// IsNamedGenre reports whether label is one of the four named genres.
func IsNamedGenre(label string) bool {
	_, ok := namedVariants[label]
	return ok
}
