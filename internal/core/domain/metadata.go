package domain

// Category is the coarse document category assigned by the classifier.
type Category string

// Known categories, in classifier priority order.
const (
	CategorySTEP       Category = "STEP Framework"
	Category4Rs        Category = "4Rs Framework"
	CategoryCrisis     Category = "Crisis Handling"
	CategoryRedirect   Category = "Redirection"
	CategoryGuidelines Category = "Guidelines"
	CategoryGeneral    Category = "General Coaching"
)

// FallbackTitle is used when no line of the source text qualifies as a title.
const FallbackTitle = "Coaching Scenario"

// MaxTitleLength is the maximum title length in runes.
const MaxTitleLength = 100

// MinTitleLineLength is the trimmed rune length a line must exceed to become the title.
const MinTitleLineLength = 20

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategorySTEP, Category4Rs, CategoryCrisis, CategoryRedirect, CategoryGuidelines, CategoryGeneral:
		return true
	default:
		return false
	}
}

// DocumentMetadata is derived once per document and shared by every point of a run.
type DocumentMetadata struct {
	// Category is the classified category.
	Category Category

	// Title is the document title, at most MaxTitleLength runes.
	Title string

	// Tags are fixed per category.
	Tags []string
}
