// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// viewerSize is the edge length of the square viewer canvas in pixels.
const viewerSize = 500

// viewerTmpl is the 3Dmol.js fragment for one structure. The CIF text is
// injected as a JavaScript string by the template engine, so arbitrary
// structure content cannot break out of the script. The page hosting the
// fragment must load the 3Dmol.js library itself.
var viewerTmpl = template.Must(template.New("viewer").Parse(`<div id="viewer-{{.ID}}" style="width:{{.Size}}px; height:{{.Size}}px; position:relative;"></div>
<script>
(function () {
  var viewer = $3Dmol.createViewer(document.getElementById("viewer-{{.ID}}"), {backgroundColor: "white"});
  viewer.addModel({{.CIF}}, "cif");
  viewer.setStyle({}, {stick: {radius: 0.15, colorscheme: "Jmol"}, sphere: {scale: 0.3, colorscheme: "Jmol"}});
  viewer.zoomTo();
  viewer.render();
})();
</script>
`))

// ViewerHTML renders the ball-and-stick viewer fragment for a CIF. The id
// must be unique within the hosting page; it is sanitized into a DOM id.
func ViewerHTML(id, cif string) (template.HTML, error) {
	var buf bytes.Buffer
	err := viewerTmpl.Execute(&buf, struct {
		ID   string
		Size int
		CIF  string
	}{ID: SanitizeFilename(id), Size: viewerSize, CIF: cif})
	if err != nil {
		return "", fmt.Errorf("rendering viewer: %w", err)
	}
	return template.HTML(buf.String()), nil
}
