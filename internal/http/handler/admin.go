package handler

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"urlexport/internal/auth"
	"urlexport/internal/http/middleware"
)

var adminPage = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Export All URLs</title>
</head>
<body class="wp-admin">
<div class="wrap">
  <h1>Export All URLs</h1>
{{- if .Failed}}
  <div class="notice notice-error"><p>Export failed. Check the debug log below.</p></div>
{{- end}}
{{- if .Succeeded}}
  <div class="notice notice-success"><p>Export completed.</p></div>
{{- end}}

  <div class="card">
    <h2>Content URLs</h2>
    <p>Export the ID, title, type, status and URL of every public post, page and custom post type.</p>
    <form method="post" action="{{.ActionURL}}">
      <input type="hidden" name="action" value="{{.ContentAction}}" />
      <input type="hidden" name="export_nonce" value="{{.ContentNonce}}" />
      <button type="submit" class="button button-primary">Export Content URLs</button>
    </form>
  </div>

  <div class="card">
    <h2>Media URLs</h2>
    <p>Export every media library item with its file URL, type and size.</p>
    <form method="post" action="{{.ActionURL}}">
      <input type="hidden" name="action" value="{{.MediaAction}}" />
      <input type="hidden" name="media_nonce" value="{{.MediaNonce}}" />
      <button type="submit" class="button button-primary">Export Media URLs</button>
    </form>
  </div>
{{- if .Lines}}

  <div class="card">
    <h2>Debug Log</h2>
    <pre>{{range .Lines}}{{.}}
{{end}}</pre>
  </div>
{{- end}}

  <div class="card">
    <h2>Troubleshooting</h2>
    <p>If an export fails or the download is empty, check the debug log at <code>{{.LogPath}}</code>.</p>
  </div>
</div>
</body>
</html>
`))

type adminPageData struct {
	ActionURL     string
	ContentAction string
	ContentNonce  string
	MediaAction   string
	MediaNonce    string
	Failed        bool
	Succeeded     bool
	Lines         []string
	LogPath       string
}

// AdminPage renders the export page. Diagnostics queued for the current user are shown once.
//
// @Summary  Export admin page
// @Tags     export
// @Produce  html
// @Param    export_error   query string false "show the failure notice"
// @Param    export_success query string false "show the success notice"
// @Success  200 {string} string "HTML page"
// @Failure  401 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Router   /wp-admin/export-all-urls [get]
func AdminPage(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		if sess == nil {
			return fiber.ErrUnauthorized
		}
		if err := sess.Require(auth.CapManageOptions); err != nil {
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", msgForbidden)
		}

		contentNonce, err := d.Auth.IssueActionToken(sess.Subject, ActionExportContent)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		mediaNonce, err := d.Auth.IssueActionToken(sess.Subject, ActionExportMedia)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		data := adminPageData{
			ActionURL:     AdminAjaxPath,
			ContentAction: ActionExportContent,
			ContentNonce:  contentNonce,
			MediaAction:   ActionExportMedia,
			MediaNonce:    mediaNonce,
			Failed:        c.Query("export_error") != "",
			Succeeded:     c.Query("export_success") != "",
			Lines:         d.Flash.Take(sess.Subject),
			LogPath:       d.DiagPath,
		}

		var buf bytes.Buffer
		if err := adminPage.Execute(&buf, data); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	}
}
