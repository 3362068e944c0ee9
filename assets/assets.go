// Package assets embeds the static page assets.
package assets

import _ "embed"

// MapPage is the Leaflet page template shared by both output maps.
//
//go:embed map.html.tpl
var MapPage []byte
