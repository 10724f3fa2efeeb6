// Package resources serves the dashboard's static assets.
package resources

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// DatastarScript is the datastar client bundle loaded by every page.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Stylesheet is the file name of the dashboard stylesheet under static/.
const Stylesheet = "tablescope.css"

// StaticPath returns the URL path for a static asset.
func StaticPath(name string) string {
	return "/static/" + name
}
