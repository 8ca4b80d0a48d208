package mime

import "path/filepath"

var Extension = map[string]MIME{
	".css":  CSS,
	".gif":  GIF,
	".gz":   GZIP,
	".htm":  HTML,
	".html": HTML,
	".ico":  ICO,
	".jpeg": JPEG,
	".jpg":  JPEG,
	".js":   JS,
	".json": JSON,
	".mjs":  JS,
	".pdf":  PDF,
	".png":  PNG,
	".svg":  SVG,
	".txt":  Plain,
	".webp": WEBP,
	".xml":  XML,
	".zip":  ZIP,
}

// ByExtension derives a content type from the path's extension. Unknown and
// missing extensions fall back to text/html, which is what the serving side
// has always advertised for anything it cannot classify.
func ByExtension(path string) MIME {
	if m, ok := Extension[filepath.Ext(path)]; ok {
		return m
	}

	return HTML
}
