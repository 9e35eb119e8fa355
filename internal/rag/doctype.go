package rag

import (
	"path"
	"strings"
)

// segment name → document type, checked from the segment nearest the file
// outwards so deeper folders win over top-level ones.
var dirTypes = map[string]DocumentType{
	"components":       TypeComponent,
	"component":        TypeComponent,
	"design-system":    TypeDesignSystem,
	"coding-patterns":  TypeCodingPatterns,
	"patterns":         TypeCodingPatterns,
	"app-architecture": TypeAppArchitecture,
	"architecture":     TypeAppArchitecture,
	"services":         TypeServices,
	"query-hooks":      TypeQueryHooks,
	"hooks":            TypeQueryHooks,
	"types":            TypeTypes,
}

// GetDocumentType infers a DocumentType from a file's path relative to the
// docs root. Pure: the same path always yields the same type. A README
// resolves to readme regardless of directory.
func GetDocumentType(relPath string) DocumentType {
	relPath = filepathToSlash(relPath)

	base := strings.ToLower(path.Base(relPath))
	if strings.HasPrefix(base, "readme") {
		return TypeReadme
	}

	segs := strings.Split(path.Dir(relPath), "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if t, ok := dirTypes[strings.ToLower(segs[i])]; ok {
			return t
		}
	}
	return TypeGeneralDocs
}

// Category returns the top-level docs subfolder for a relative path, or
// "general" for files sitting directly in the root. Never empty.
func Category(relPath string) string {
	relPath = filepathToSlash(relPath)
	segs := strings.Split(relPath, "/")
	if len(segs) < 2 || segs[0] == "" || segs[0] == "." {
		return "general"
	}
	return segs[0]
}

// Subcategory returns the nested directory path between the category and the
// file, empty when there is none.
func Subcategory(relPath string) string {
	relPath = filepathToSlash(relPath)
	segs := strings.Split(relPath, "/")
	if len(segs) < 3 {
		return ""
	}
	return strings.Join(segs[1:len(segs)-1], "/")
}

// Filename returns the stem of the file, without directory or extension.
func Filename(relPath string) string {
	base := path.Base(filepathToSlash(relPath))
	return strings.TrimSuffix(base, path.Ext(base))
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
