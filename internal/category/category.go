// Package category defines the fixed set of file-type filters.
package category

import (
	"fmt"
	"slices"
	"strings"
)

// Category restricts a search to a family of file extensions.
type Category int

const (
	All Category = iota
	Images
	Videos
	Audio
	Documents
)

// Categories lists every category in display order.
var Categories = []Category{All, Images, Videos, Audio, Documents}

var (
	imageExtensions    = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg"}
	videoExtensions    = []string{".mp4", ".mkv", ".avi", ".mov", ".webm"}
	audioExtensions    = []string{".mp3", ".wav", ".flac", ".ogg"}
	documentExtensions = []string{".pdf", ".docx", ".txt", ".odt", ".xlsx", ".pptx"}
)

// aliases maps accepted spellings to categories. The Spanish names are the
// labels the tool has always shown.
var aliases = map[string]Category{
	"all":        All,
	"todo":       All,
	"images":     Images,
	"imagenes":   Images,
	"imágenes":   Images,
	"videos":     Videos,
	"audio":      Audio,
	"music":      Audio,
	"musica":     Audio,
	"música":     Audio,
	"documents":  Documents,
	"documentos": Documents,
}

// String returns the canonical lowercase name of the category.
func (c Category) String() string {
	switch c {
	case All:
		return "all"
	case Images:
		return "images"
	case Videos:
		return "videos"
	case Audio:
		return "audio"
	case Documents:
		return "documents"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Extensions returns the lowercase extensions (with leading dot) accepted by
// the category. An empty result means any extension is accepted.
func (c Category) Extensions() []string {
	switch c {
	case Images:
		return slices.Clone(imageExtensions)
	case Videos:
		return slices.Clone(videoExtensions)
	case Audio:
		return slices.Clone(audioExtensions)
	case Documents:
		return slices.Clone(documentExtensions)
	default:
		return nil
	}
}

// Accepts reports whether a file with extension ext belongs to the category.
// ext is compared case-insensitively and must include the leading dot.
func (c Category) Accepts(ext string) bool {
	var exts []string
	switch c {
	case All:
		return true
	case Images:
		exts = imageExtensions
	case Videos:
		exts = videoExtensions
	case Audio:
		exts = audioExtensions
	case Documents:
		exts = documentExtensions
	default:
		return false
	}
	return slices.Contains(exts, strings.ToLower(ext))
}

// Parse looks up a category by name. Matching is case-insensitive and
// accepts both English and Spanish names.
func Parse(name string) (Category, error) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, len(Categories))
		for i, cat := range Categories {
			names[i] = cat.String()
		}
		return All, fmt.Errorf("unknown category %q: must be one of %s", name, strings.Join(names, ", "))
	}
	return c, nil
}
