package rest

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

//go:embed templates/index.html
var templatesFS embed.FS

type page struct {
	tmpl *template.Template
}

type cellData struct {
	Index     int
	Mark      entity.Mark
	Highlight bool
}

type pageData struct {
	Rows   [][]cellData
	Status string
	Moves  []tictactoe.MoveEntry
}

func newPage() *page {
	return &page{
		tmpl: template.Must(template.ParseFS(templatesFS, "templates/index.html")),
	}
}

// render draws view as the page's first paint; the socket takes over from there.
func (that *page) render(view tictactoe.View) ([]byte, error) {
	var buf bytes.Buffer
	if err := that.tmpl.Execute(&buf, newPageData(view)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func newPageData(view tictactoe.View) pageData {
	rows := make([][]cellData, 0, entity.BoardRows)
	for r := 0; r < entity.BoardRows; r++ {
		row := make([]cellData, 0, entity.BoardCols)
		for c := 0; c < entity.BoardCols; c++ {
			index := r*entity.BoardCols + c
			row = append(row, cellData{
				Index:     index,
				Mark:      view.Board[index],
				Highlight: view.Winner.Contains(index),
			})
		}
		rows = append(rows, row)
	}

	return pageData{
		Rows:   rows,
		Status: view.Status,
		Moves:  view.Moves,
	}
}

func (that *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	body, err := that.page.render(tictactoe.NewGameSession().View())
	if err != nil {
		that.writeError(w, "handleIndex", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		that.logger.Error("failed to write page", "error", err)
	}
}
