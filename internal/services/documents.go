package services

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/cv-screener/internal/models"
)

const pdfMediaType = "application/pdf"

// LoadUpload reads a multipart file into memory. Files above maxSize are
// rejected before they are read.
func LoadUpload(file *multipart.FileHeader, maxSize int64) (models.UploadedDocument, error) {
	if maxSize > 0 && file.Size > maxSize {
		return models.UploadedDocument{}, fmt.Errorf("%w: file %s is too large (max %d bytes)", ErrInputValidation, file.Filename, maxSize)
	}

	src, err := file.Open()
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	raw, err := readLimited(src, maxSize)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to read %s: %w", file.Filename, err)
	}

	return models.UploadedDocument{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Raw:         raw,
	}, nil
}

// LoadFile reads a document from disk, deriving its media type from the
// extension.
func LoadFile(path string, maxSize int64) (models.UploadedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return models.UploadedDocument{}, fmt.Errorf("%w: file %s is too large (max %d bytes)", ErrInputValidation, path, maxSize)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return models.UploadedDocument{
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Raw:         raw,
	}, nil
}

// LoadDirectory reads every regular file in dir in name order. Type checks
// are left to the pipeline.
func LoadDirectory(dir string, maxSize int64) ([]models.UploadedDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var docs []models.UploadedDocument
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		doc, err := LoadFile(filepath.Join(dir, entry.Name()), maxSize)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// IsPDF accepts a declared application/pdf type, or a .pdf file name when
// the declared type is missing or generic.
func IsPDF(doc models.UploadedDocument) bool {
	mediaType, _, err := mime.ParseMediaType(doc.ContentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(doc.ContentType))
	}

	switch mediaType {
	case pdfMediaType:
		return true
	case "", "application/octet-stream":
		return strings.EqualFold(filepath.Ext(doc.FileName), ".pdf")
	default:
		return false
	}
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxSize {
		return nil, fmt.Errorf("%w: file is too large (max %d bytes)", ErrInputValidation, maxSize)
	}
	return raw, nil
}
