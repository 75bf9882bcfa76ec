package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// ChartFileInfo represents one generated chart artifact
type ChartFileInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

// ListChartsHandler lists all generated chart files
// @Summary      List chart files
// @Description  Get a list of all generated chart HTML files, newest first
// @Tags         Charts
// @Produce      json
// @Success      200  {object}  map[string][]ChartFileInfo  "List of chart files"
// @Failure      500  {object}  map[string]string           "Failed to list files"
// @Router       /api/charts [get]
func (h *Handlers) ListChartsHandler(c *gin.Context) {
	if err := os.MkdirAll(h.productsDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create charts directory: %v", err)})
		return
	}

	files, err := os.ReadDir(h.productsDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read charts directory: %v", err)})
		return
	}

	var chartFiles []ChartFileInfo
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".html" {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		chartFiles = append(chartFiles, ChartFileInfo{
			Filename: file.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().Format(time.RFC3339),
		})
	}

	sort.Slice(chartFiles, func(i, j int) bool {
		return chartFiles[i].Modified > chartFiles[j].Modified
	})

	c.JSON(http.StatusOK, gin.H{"files": chartFiles})
}

// ServeChartHandler serves one chart HTML file
// @Summary      Serve chart file
// @Tags         Charts
// @Produce      text/html
// @Param        filename  path      string  true  "Chart file name"
// @Success      200       {string}  string  "HTML content"
// @Failure      404       {object}  map[string]string  "File not found"
// @Router       /api/charts/{filename} [get]
func (h *Handlers) ServeChartHandler(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filename is required"})
		return
	}

	// Security: prevent directory traversal
	if filepath.Base(filename) != filename {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}
	if filepath.Ext(filename) != ".html" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only HTML files are allowed"})
		return
	}

	filePath := filepath.Join(h.productsDir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.File(filePath)
}
