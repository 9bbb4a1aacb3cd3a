package api

import (
	"errors"
	"fmt"
	"strings"

	"FinDash/internal/domain/models"
	xhttp "FinDash/pkg/http"
)

// toAppError maps domain failures onto HTTP errors. Unknown errors pass
// through and render as 500.
func toAppError(err error) error {
	var mce *models.MissingColumnsError
	switch {
	case errors.As(err, &mce):
		return xhttp.UnprocessableError("ERR_COLUMN_NOT_FOUND", needColumns(mce.Columns)).
			WithParam("columns", mce.Columns).
			WithError(err)
	case errors.Is(err, models.ErrSessionNotFound):
		return xhttp.NotFoundError("Chat session not found.").WithError(err)
	case errors.Is(err, models.ErrSessionBusy):
		return xhttp.ConflictError("Chat session is busy, try again.").WithError(err)
	case errors.Is(err, models.ErrInvalidMultiplier):
		return xhttp.BadRequestError("k must be a positive number.").WithError(err)
	case errors.Is(err, models.ErrEmptyMessage):
		return xhttp.BadRequestError("Message content is empty.").WithError(err)
	case errors.Is(err, models.ErrUnknownHeatmap), errors.Is(err, models.ErrUnknownColumn):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	}
	return err
}

// needColumns renders "Need 'a' and 'b' columns."
func needColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = "'" + c + "'"
	}
	switch len(quoted) {
	case 0:
		return "Missing columns."
	case 1:
		return fmt.Sprintf("Need %s column.", quoted[0])
	}
	return fmt.Sprintf("Need %s and %s columns.",
		strings.Join(quoted[:len(quoted)-1], ", "), quoted[len(quoted)-1])
}
