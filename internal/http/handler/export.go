package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"urlexport/internal/auth"
	"urlexport/internal/diagnostics"
	"urlexport/internal/export"
	"urlexport/internal/http/middleware"
)

// Admin actions and the form field carrying each one's token.
const (
	ActionExportContent = "export_urls_ajax"
	ActionExportMedia   = "export_media_ajax"

	NonceFieldContent = "export_nonce"
	NonceFieldMedia   = "media_nonce"
)

const (
	msgExpired   = "The link you followed has expired."
	msgForbidden = "You do not have sufficient permissions to access this page."
)

// AdminAjax dispatches admin form actions by their "action" field.
// Unknown actions get a 400 with body "0".
//
// @Summary  Run an export and download it as CSV
// @Tags     export
// @Accept   x-www-form-urlencoded
// @Produce  text/csv
// @Param    action       formData string true  "export_urls_ajax or export_media_ajax"
// @Param    export_nonce formData string false "token for export_urls_ajax"
// @Param    media_nonce  formData string false "token for export_media_ajax"
// @Success  200 {file} file
// @Failure  400 {string} string "0"
// @Failure  401 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /wp-admin/admin-ajax.php [post]
func AdminAjax(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.FormValue("action") {
		case ActionExportContent:
			return runExport(c, d, export.KindContent, ActionExportContent, NonceFieldContent)
		case ActionExportMedia:
			return runExport(c, d, export.KindMedia, ActionExportMedia, NonceFieldMedia)
		default:
			return c.Status(fiber.StatusBadRequest).SendString("0")
		}
	}
}

func runExport(c *fiber.Ctx, d Deps, kind export.Kind, action, nonceField string) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return fiber.ErrUnauthorized
	}
	log := d.Log.WithFields(logrus.Fields{
		"request_id": requestIDFromCtx(c),
		"user":       sess.Subject,
		"kind":       kind,
	})
	diag := diagnostics.NewBuffer(d.DiagSink, log)
	d.Flash.Add(sess.Subject, diag)
	diag.Logf("Starting AJAX export handler for %s", kind)

	if err := d.Auth.VerifyActionToken(c.FormValue(nonceField), sess.Subject, action); err != nil {
		diag.Logf("Invalid nonce for %s: %v", action, err)
		return writeError(c, fiber.StatusForbidden, "INVALID_NONCE", msgExpired)
	}
	if err := sess.Require(auth.CapManageOptions); err != nil {
		diag.Logf("Permission denied: %v", err)
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", msgForbidden)
	}

	var (
		res *export.Result
		err error
	)
	if kind == export.KindMedia {
		res, err = d.Exports.ExportMedia(c.UserContext(), diag)
	} else {
		res, err = d.Exports.ExportContent(c.UserContext(), diag)
	}
	if err != nil || res == nil {
		return writeError(c, fiber.StatusInternalServerError, "EXPORT_FAILED", "export failed, see the debug log on the export page")
	}

	dl, err := res.Open(func() { diag.Logf("Temp file removed after download") })
	if err != nil {
		diag.Logf("Exception: %v", err)
		return writeError(c, fiber.StatusInternalServerError, "EXPORT_FAILED", "export failed, see the debug log on the export page")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, res.Filename()))
	c.Set(fiber.HeaderCacheControl, "no-cache, must-revalidate, max-age=0")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "Wed, 11 Jan 1984 05:00:00 GMT")
	if res.Outcome == export.Partial {
		c.Set("X-Export-Outcome", res.Outcome.String())
	}
	diag.Logf("Headers set for CSV download")
	diag.Logf("Sending file content to browser: %s (%d bytes)", res.Filename(), dl.Size())
	// fasthttp closes the stream once the body is written, which removes the file.
	return c.SendStream(dl, int(dl.Size()))
}
