package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/config"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
)

type ParserConfig struct {
	Config *config.Config
}

const defaultPageNumber = 1

// SupportedExt reports whether the given file extension can be parsed
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".txt", ".md", ".docx", ".xlsx", ".ods":
		return true
	}
	return false
}

// Parse extracts text from the file and splits it into chunks with
// source file, page number, and offset metadata
func Parse(filePath string, cfg *config.Config) ([]models.Chunk, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.ApplyDefaults()

	p := ParserConfig{Config: cfg}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return p.parsePDF(filePath)
	case ".docx":
		return p.parseDOCX(filePath)
	case ".xlsx":
		return p.parseXLSX(filePath)
	case ".ods":
		return p.parseODS(filePath)
	case ".txt":
		return p.parseText(filePath)
	case ".md":
		return p.parseMarkdown(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func (p *ParserConfig) parsePDF(filePath string) ([]models.Chunk, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		// skip empty pages
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		chunks = append(chunks, p.getChunks(pageText, filePath, i)...)
	}
	return chunks, nil
}

func (p *ParserConfig) parseDOCX(filePath string) ([]models.Chunk, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc := r.Editable()
	content := doc.GetContent()
	return p.getChunks(content, filePath, defaultPageNumber), nil
}

func (p *ParserConfig) parseXLSX(filePath string) ([]models.Chunk, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		// sheets stand in for pages, 1-based
		chunks = append(chunks, p.getChunks(text.String(), filePath, sheetNum+1)...)
	}
	return chunks, nil
}

func (p *ParserConfig) parseODS(filePath string) ([]models.Chunk, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []models.Chunk
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		chunks = append(chunks, p.getChunks(text.String(), filePath, sheetNum+1)...)
	}
	return chunks, nil
}

func (p *ParserConfig) parseText(filePath string) ([]models.Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return p.getChunks(string(data), filePath, defaultPageNumber), nil
}

func (p *ParserConfig) parseMarkdown(filePath string) ([]models.Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	text, err := markdownToText(data)
	if err != nil {
		return nil, err
	}
	return p.getChunks(text, filePath, defaultPageNumber), nil
}

// getChunks splits content into overlapping windows and attaches metadata
func (p *ParserConfig) getChunks(content, sourceFile string, pageNumber int) []models.Chunk {
	var chunks []models.Chunk
	spans := chunkContent(content, p.Config.RAG.ChunkSize, p.Config.RAG.ChunkOverlap)
	for i, span := range spans {
		chunks = append(chunks, models.Chunk{
			Content:     span.text,
			SourceFile:  sourceFile,
			PageNumber:  pageNumber,
			StartOffset: span.offset,
			ChunkID:     i + 1,
		})
	}
	return chunks
}
