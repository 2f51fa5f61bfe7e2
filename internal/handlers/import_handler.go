package handlers

import (
	"bufio"
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fveracoechea/hyperlog-sub000/internal/access"
	"github.com/fveracoechea/hyperlog-sub000/internal/models"
	"github.com/fveracoechea/hyperlog-sub000/internal/repositories"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
	"github.com/fveracoechea/hyperlog-sub000/pkg/responses"
)

const importWorkers = 4

type ImportHandler struct {
	db    *gorm.DB
	guard *access.Guard
	repo  repositories.LinkRepository
}

func NewImportHandler(db *gorm.DB) *ImportHandler {
	return &ImportHandler{
		db:    db,
		guard: access.NewGuard(db),
		repo:  repositories.NewLinkRepository(db),
	}
}

// ImportResult reports the outcome of importing one CSV row.
type ImportResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ImportLinks handles POST /import-links. The CSV columns are
// url,title,description with an optional collection id as fourth column.
// Rows are imported concurrently; the response reports every row.
func (h *ImportHandler) ImportLinks(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("No file was uploaded or invalid file field. Please use 'file' as the form field name.", err.Error()))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") &&
		header.Header.Get("Content-Type") != "text/csv" {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Uploaded file must be a CSV file", ""))
		return
	}

	reader := csv.NewReader(bufio.NewReader(file))
	reader.FieldsPerRecord = -1

	type row struct {
		url, title, description string
		collectionID            *uuid.UUID
	}
	var rows []row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Failed to parse CSV file", err.Error()))
			return
		}
		if len(record) < 2 {
			continue
		}
		r := row{url: strings.TrimSpace(record[0]), title: strings.TrimSpace(record[1])}
		if r.url == "url" && r.title == "title" {
			// header row
			continue
		}
		if len(record) > 2 {
			r.description = strings.TrimSpace(record[2])
		}
		if len(record) > 3 && record[3] != "" {
			if id, err := uuid.Parse(strings.TrimSpace(record[3])); err == nil {
				r.collectionID = &id
			}
		}
		rows = append(rows, r)
	}

	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("CSV file contains no importable rows", ""))
		return
	}

	results := make([]ImportResult, len(rows))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < importWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := rows[i]
				results[i] = h.importRow(currentUser, r.url, r.title, r.description, r.collectionID)
			}
		}()
	}
	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	imported := 0
	for _, r := range results {
		if r.Success {
			imported++
		}
	}

	logger.Log.Info().
		Int("imported", imported).
		Int("total", len(results)).
		Str("userId", currentUser.String()).
		Msg("Link import finished")

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Import finished", gin.H{
		"imported": imported,
		"total":    len(results),
		"results":  results,
	}))
}

func (h *ImportHandler) importRow(ownerID uuid.UUID, url, title, description string, collectionID *uuid.UUID) ImportResult {
	result := ImportResult{URL: url, Title: title}
	if url == "" || title == "" {
		result.Error = "url and title are required"
		return result
	}

	if _, err := h.repo.FindByURL(url, ownerID); err == nil {
		result.Error = "already imported"
		return result
	}

	if collectionID != nil {
		if _, err := h.guard.Collection(*collectionID, ownerID); err != nil {
			result.Error = "collection not accessible"
			return result
		}
	}

	link := models.Link{
		URL:          url,
		Title:        title,
		OwnerID:      ownerID,
		CollectionID: collectionID,
	}
	if description != "" {
		link.Description = &description
	}

	if err := h.db.Create(&link).Error; err != nil {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}
