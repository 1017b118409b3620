package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/lifelist/internal/export"
	"github.com/existflow/lifelist/internal/store"
)

// maxImportBytes bounds an uploaded backup
const maxImportBytes = 32 << 20

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Stats())
}

// handleExport downloads one profile (?profile=id, default the active one) or,
// with ?all=true, the whole collection.
func (s *Server) handleExport(c echo.Context) error {
	id := c.QueryParam("profile")
	name := "all-profiles"
	all, _ := strconv.ParseBool(c.QueryParam("all"))
	if !all {
		if id == "" {
			p, ok := s.store.CurrentProfile()
			if !ok {
				return store.ErrNoActiveProfile
			}
			id = p.ID
		}
		p, err := s.profileName(id)
		if err != nil {
			return err
		}
		name = p
	} else {
		id = ""
	}

	data, err := s.store.Export(id)
	if err != nil {
		return err
	}
	filename := export.Filename(name, "json", time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

func (s *Server) profileName(id string) (string, error) {
	if p, ok := s.store.CurrentProfile(); ok && p.ID == id {
		return p.Name, nil
	}
	p, err := s.store.Profile(id)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// handleExportDocument renders the active profile's filtered list as a printable text document
func (s *Server) handleExportDocument(c echo.Context) error {
	p, ok := s.store.CurrentProfile()
	if !ok {
		return store.ErrNoActiveProfile
	}
	filter, err := store.ParseFilter(c.QueryParam("filter"))
	if err != nil {
		return err
	}
	goals, err := s.store.FilteredGoals(filter, c.QueryParam("q"), store.SortDateAsc)
	if err != nil {
		return err
	}

	now := time.Now()
	doc := export.NewDocument(goals, p.Name, now, export.DefaultLinesPerPage)
	filename := export.Filename(p.Name, "txt", now)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.String(http.StatusOK, doc.Render())
}

// handleImport loads an exported document. Anything that would overwrite
// existing data needs ?confirm=true.
func (s *Server) handleImport(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes))
	if err != nil {
		return err
	}
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))

	res, err := s.store.Import(data, func(store.ImportAction, string) bool { return confirmed })
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
