package handlers

import (
	"fmt"
	"net/http"
	"path"

	"envision/pkg/zip"
)

// VisualizationsExport bundles a record's locally stored assets plus its
// narrative text into a single zip download. Hosted assets outside our own
// storage are skipped rather than proxied.
func (a *App) VisualizationsExport(w http.ResponseWriter, r *http.Request) {
	rec, ok := a.loadRecord(w, r)
	if !ok {
		return
	}

	var assets []zip.Asset
	if rec.Text != "" {
		assets = append(assets, zip.Asset{Filename: "narrative.txt", MIME: "text/plain", Data: []byte(rec.Text)})
	}
	for _, candidate := range []struct {
		url  string
		mime string
	}{
		{rec.ImageURL, "image/jpeg"},
		{rec.AudioURL, "audio/wav"},
		{rec.VideoURL, "video/mp4"},
	} {
		if candidate.url == "" {
			continue
		}
		key, local := a.Store.KeyForURL(candidate.url)
		if !local {
			continue
		}
		data, err := a.Store.Read(r.Context(), key)
		if err != nil {
			a.Logger.Warn().Err(err).Str("key", key).Msg("handlers: export asset read failed")
			continue
		}
		assets = append(assets, zip.Asset{Filename: path.Base(key), MIME: candidate.mime, Data: data})
	}

	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no exportable assets")
		return
	}

	archive := zip.ArchiveAssets(assets)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.ID+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
