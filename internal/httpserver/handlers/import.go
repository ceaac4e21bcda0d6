package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/bind"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/homepage"
)

// Import runs a Homepage import. A non-empty body is parsed as bookmarks.yaml,
// otherwise the configured file is used.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, bind.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, r, d.Logger, domain.ValidationError("request body too large"))
				return
			}
			writeError(w, r, d.Logger, domain.ValidationError(err.Error()))
			return
		}

		var res homepage.Result
		switch {
		case len(data) > 0:
			config, perr := homepage.Parse(data)
			if perr != nil {
				writeError(w, r, d.Logger, domain.ValidationError(perr.Error()))
				return
			}
			res, err = d.Importer.Import(r.Context(), config)
		case d.ImportFile != "":
			res, err = d.Importer.ImportFile(r.Context(), d.ImportFile)
		default:
			writeError(w, r, d.Logger, domain.ValidationError("no import file configured, send bookmarks.yaml as the body"))
			return
		}

		if err != nil {
			if !domain.IsKind(err, domain.KindStore) && len(data) > 0 {
				err = domain.ValidationError(err.Error())
			}
			writeError(w, r, d.Logger, err)
			return
		}

		d.Logger.Info("import triggered via endpoint",
			logger.String("remote_ip", r.RemoteAddr),
			logger.Int("created", res.Created),
			logger.Int("skipped", res.Skipped))
		respond.JSON(w, http.StatusOK, res)
	}
}
