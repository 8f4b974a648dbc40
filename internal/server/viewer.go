// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/predictlab/matpredict/internal/render"
	"github.com/predictlab/matpredict/pkg/types"
)

// defaultViewerCacheSize bounds the viewer-page cache when the config does
// not say otherwise.
const defaultViewerCacheSize = 64

// viewerPage is the standalone document an iframe embeds for one material:
// the 3-D viewer plus its structure-file download buttons.
var viewerPage = template.Must(template.New("viewerPage").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Formula}}</title>
<script src="https://3dmol.org/build/3Dmol-min.js"></script>
<style>
  body { margin: 0; background: #0e1117; color: #e6edf3; font-family: -apple-system, 'Segoe UI', sans-serif; }
  .downloads { display: flex; gap: 12px; padding: 10px; justify-content: center; }
</style>
</head>
<body>
{{.Viewer}}
<div class="downloads">{{.CIFLink}}{{.POSCARLink}}</div>
</body>
</html>
`))

type viewerPageData struct {
	Formula    string
	Viewer     template.HTML
	CIFLink    template.HTML
	POSCARLink template.HTML
}

// cacheViewers renders and remembers the viewer page of every ranked
// candidate that has a structure export. Pages are keyed by material ID;
// rarely viewed materials fall out of the LRU and their iframes report the
// viewer as expired until the next run re-renders them.
func (s *Server) cacheViewers(report *types.Report) {
	for _, rc := range report.Ranked {
		id := rc.Record.MaterialID
		if id == "" || rc.CIF == "" {
			continue
		}
		page, err := renderViewerPage(id, rc)
		if err != nil {
			log.Printf("viewer page for %s: %v", id, err)
			continue
		}
		s.viewers.Add(id, page)
	}
}

// renderViewerPage builds the viewer document for one ranked candidate.
func renderViewerPage(id string, rc types.RankedCandidate) ([]byte, error) {
	name := rc.Record.DisplayFormula(rc.Formula)

	fragment, err := render.ViewerHTML(id, rc.CIF)
	if err != nil {
		return nil, err
	}

	data := viewerPageData{
		Formula: name,
		Viewer:  fragment,
		CIFLink: render.DataLink([]byte(rc.CIF), name+".cif", "chemical/x-cif", "CIF ("+name+")"),
	}
	if rc.POSCAR != "" {
		data.POSCARLink = render.DataLink([]byte(rc.POSCAR), name+"_POSCAR.vasp", "text/plain", "POSCAR ("+name+")")
	}

	var buf bytes.Buffer
	if err := viewerPage.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/viewer/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	page, ok := s.viewers.Get(id)
	if !ok {
		http.Error(w, "no viewer for this material; run a discovery first", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		log.Printf("writing viewer page: %v", err)
	}
}
