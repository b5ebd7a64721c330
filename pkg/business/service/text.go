package service

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

type ITextService interface {
	DecodeEntities(input string) string
	Slugify(title string) string
	NormalizeArticul(articul string) string
	SanitizeFileName(name string) string
}

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	nonSlugRe      = regexp.MustCompile(`[^a-z0-9-]`)
	dashesRe       = regexp.MustCompile(`-+`)
	fileSpecialsRe = regexp.MustCompile("[?\\[\\]/\\\\=<>:;,'\"&$#*()|~`!{}%+’«»”“\x00]")
)

type TextService struct {
	lower cases.Caser
}

func NewTextService() *TextService {
	return &TextService{lower: cases.Lower(language.Und)}
}

// DecodeEntities раскодирует html-сущности в описаниях из фида.
func (ts *TextService) DecodeEntities(input string) string {
	return html.UnescapeString(input)
}

// Slugify: нижний регистр, пробелы -> "-", все кроме [a-z0-9-] удаляется.
// Кириллица при этом пропадает целиком, пустой slug магазин сгенерирует сам.
func (ts *TextService) Slugify(title string) string {
	slug := ts.lower.String(title)
	slug = whitespaceRe.ReplaceAllString(slug, "-")
	return nonSlugRe.ReplaceAllString(slug, "")
}

// NormalizeArticul заменяет кириллическую "х" на латинскую "x".
func (ts *TextService) NormalizeArticul(articul string) string {
	t := runes.Map(func(r rune) rune {
		if r == 'х' {
			return 'x'
		}
		return r
	})
	normalized, _, err := transform.String(t, articul)
	if err != nil {
		return articul
	}
	return normalized
}

// SanitizeFileName повторяет поведение sanitize_file_name из WordPress в упрощенном виде.
func (ts *TextService) SanitizeFileName(name string) string {
	cleaned := fileSpecialsRe.ReplaceAllString(name, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, "-")
	cleaned = dashesRe.ReplaceAllString(cleaned, "-")
	return strings.Trim(cleaned, ".-_")
}
