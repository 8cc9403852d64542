package handler

import (
	"time"

	"consumables/internal/period"

	"github.com/gin-gonic/gin"
)

// windowQuery reads the period and date query parameters. A missing date means today in loc.
func windowQuery(c *gin.Context, loc *time.Location, now time.Time) (period.Kind, time.Time, bool) {
	kind, err := period.ParseKind(c.Query("period"))
	if err != nil {
		badRequest(c, err.Error())
		return "", time.Time{}, false
	}
	ref, err := period.ParseDate(c.Query("date"), loc, now)
	if err != nil {
		badRequest(c, err.Error())
		return "", time.Time{}, false
	}
	return kind, ref, true
}
